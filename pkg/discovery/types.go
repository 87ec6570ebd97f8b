package discovery

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceType is the DNS-SD service type of a chrono server.
	ServiceType = "_chrono._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultAPIPath is advertised when ServiceInfo.APIPath is empty.
	DefaultAPIPath = "/api"
)

// TXT record keys.
const (
	TXTKeyVersion  = "ver"
	TXTKeyAPIPath  = "api"
	TXTKeyServerID = "id"
)

// Timing constants.
const (
	// DefaultTTL is the DNS record TTL when none is configured.
	DefaultTTL = 120 * time.Second

	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 5 * time.Second
)

// MaxInstanceNameLen is the DNS label limit.
const MaxInstanceNameLen = 63

// Discovery errors.
var (
	ErrMissingRequired     = errors.New("missing required TXT record")
	ErrInvalidInstanceName = errors.New("invalid instance name")
	ErrInvalidPort         = errors.New("invalid port")
	ErrNotAdvertising      = errors.New("not advertising")
)

// ServiceInfo describes the service a server advertises.
type ServiceInfo struct {
	// Instance is the DNS-SD instance name.
	Instance string

	// Port is the HTTP listen port.
	Port uint16

	// Version is the API version (major.minor) the server speaks.
	Version string

	// APIPath is the base path of the HTTP API. Default: DefaultAPIPath.
	APIPath string

	// ServerID identifies the server across restarts.
	ServerID string
}

// Validate checks the info can be advertised.
func (i *ServiceInfo) Validate() error {
	if err := ValidateInstanceName(i.Instance); err != nil {
		return err
	}
	if i.Port == 0 {
		return ErrInvalidPort
	}
	return nil
}

// Service is a chrono server found by browsing.
type Service struct {
	Instance  string
	Host      string
	Port      uint16
	Addresses []string

	Version  string
	APIPath  string
	ServerID string
}

// BaseURL returns the HTTP base URL of the server's API using its first
// address, or the host name if no address resolved.
func (s *Service) BaseURL() string {
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	path := s.APIPath
	if path == "" {
		path = DefaultAPIPath
	}
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(host, strconv.Itoa(int(s.Port))), path)
}
