package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rodaine/table"

	"github.com/chrono-timers/chrono-go/pkg/discovery"
	"github.com/chrono-timers/chrono-go/pkg/version"
)

// RunDiscover browses the local network for chrono servers and prints them.
func RunDiscover(ctx context.Context, b discovery.Browser, timeout time.Duration, w io.Writer) error {
	services, err := discovery.Find(ctx, b, timeout)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	if len(services) == 0 {
		fmt.Fprintln(w, "No chrono servers found.")
		return nil
	}

	tbl := table.New("Instance", "URL", "Version", "Server ID")
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(idFmt).WithWriter(w)
	for _, s := range services {
		tbl.AddRow(s.Instance, s.BaseURL(), s.Version, s.ServerID)
	}
	tbl.Print()
	return nil
}

// DiscoverFirst returns the API base URL of the first server found that
// speaks a compatible API version.
func DiscoverFirst(ctx context.Context, b discovery.Browser, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	found, err := b.Browse(ctx)
	if err != nil {
		return "", err
	}
	for svc := range found {
		if version.Check(svc.Version) == nil {
			return svc.BaseURL(), nil
		}
	}
	return "", fmt.Errorf("no chrono server found within %s", timeout)
}
