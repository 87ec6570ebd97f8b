// Package discovery advertises and finds chrono servers on the local network
// with mDNS/DNS-SD.
//
// Servers register one instance of the _chrono._tcp service in the local
// domain. The instance name defaults to the host name. TXT records carry:
//
//   - ver: server version string
//   - api: base path of the HTTP API (normally /api)
//   - id:  stable server identifier
//
// Clients browse the same service type and build the API base URL from the
// first resolved address, the port, and the api record.
package discovery
