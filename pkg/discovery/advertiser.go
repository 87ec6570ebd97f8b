package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// Advertiser announces a chrono server on the local network.
type Advertiser interface {
	// Advertise starts advertising info, replacing any earlier advertisement.
	Advertise(ctx context.Context, info *ServiceInfo) error

	// Update replaces the TXT records of the running advertisement.
	Update(info *ServiceInfo) error

	// Stop withdraws the advertisement. It is safe to call when idle.
	Stop()
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration

	// Registrar performs the registration. Default: ZeroconfRegistrar.
	Registrar Registrar
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		TTL: DefaultTTL,
	}
}

// MDNSAdvertiser implements Advertiser over a Registrar.
type MDNSAdvertiser struct {
	config AdvertiserConfig

	mu           sync.Mutex
	registration Registration
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) *MDNSAdvertiser {
	if config.Registrar == nil {
		config.Registrar = ZeroconfRegistrar{}
	}
	return &MDNSAdvertiser{config: config}
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Advertise implements Advertiser.
func (a *MDNSAdvertiser) Advertise(ctx context.Context, info *ServiceInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.registration != nil {
		a.registration.Shutdown()
		a.registration = nil
	}

	txt := TXTRecordsToStrings(EncodeServiceTXT(info))

	reg, err := a.config.Registrar.Register(
		info.Instance,
		ServiceType,
		Domain,
		int(info.Port),
		txt,
		a.getInterfaces(),
		uint32(a.config.TTL.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceType, err)
	}

	a.registration = reg
	return nil
}

// Update implements Advertiser.
func (a *MDNSAdvertiser) Update(info *ServiceInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.registration == nil {
		return ErrNotAdvertising
	}
	a.registration.SetText(TXTRecordsToStrings(EncodeServiceTXT(info)))
	return nil
}

// Stop implements Advertiser.
func (a *MDNSAdvertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.registration != nil {
		a.registration.Shutdown()
		a.registration = nil
	}
}

// Advertising reports whether a registration is active.
func (a *MDNSAdvertiser) Advertising() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registration != nil
}

// Ensure MDNSAdvertiser implements Advertiser interface.
var _ Advertiser = (*MDNSAdvertiser)(nil)
