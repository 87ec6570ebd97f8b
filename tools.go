//go:build tools

package tools

// mockery generates the mocks under pkg/*/mocks from .mockery.yaml.
import (
	_ "github.com/vektra/mockery/v2"
)
