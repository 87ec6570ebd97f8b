package discovery

import (
	"net"

	"github.com/enbility/zeroconf/v3"
)

// Registration is a live mDNS service registration.
type Registration interface {
	// SetText replaces the advertised TXT records.
	SetText(txt []string)

	// Shutdown withdraws the service.
	Shutdown()
}

// Registrar creates mDNS service registrations.
type Registrar interface {
	Register(instance, service, domain string, port int, txt []string, ifaces []net.Interface, ttl uint32) (Registration, error)
}

// ZeroconfRegistrar registers services with zeroconf on real network
// interfaces.
type ZeroconfRegistrar struct{}

// Register implements Registrar.
func (ZeroconfRegistrar) Register(instance, service, domain string, port int, txt []string, ifaces []net.Interface, ttl uint32) (Registration, error) {
	var opts []zeroconf.ServerOption
	if ttl > 0 {
		opts = append(opts, zeroconf.TTL(ttl))
	}

	server, err := zeroconf.Register(instance, service, domain, port, txt, ifaces, opts...)
	if err != nil {
		return nil, err
	}
	return server, nil
}

var _ Registrar = ZeroconfRegistrar{}
