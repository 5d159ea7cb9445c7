// Package discovery finds UPnP devices on the local network.
//
// The primary mechanism is SSDP: an M-SEARCH request is multicast to
// 239.255.255.250:1900 from every usable interface, and unicast responses
// are collected for a bounded window.
//
// # Discovery Process
//
//  1. The Resolver lists up, multicast-capable, non-loopback IPv4 addresses
//  2. One ephemeral UDP socket is bound per address
//  3. M-SEARCH is sent (and retransmitted) on each socket
//  4. Every socket is read concurrently; valid responses are delivered in
//     arrival order, malformed datagrams are dropped
//  5. When the timeout elapses, the context is cancelled or the search is
//     closed, all sockets are released and the sequence ends
//
// # Usage Example
//
//	engine := discovery.NewEngine()
//	search, err := engine.Discover(ctx, discovery.SearchAll, 3*time.Second)
//	if err != nil {
//	    log.Fatal(err) // no interface could be used
//	}
//	for _, f := range search.Failures() {
//	    log.Printf("skipped %v", f)
//	}
//	for resp := range discovery.Unique(search.All()) {
//	    fmt.Println(resp.USN, resp.Location)
//	}
//
// Responses are not deduplicated: multi-homed devices and retransmissions
// produce repeats. Use Unique, keyed on USN, when that matters.
//
// Breaking out of a range over All closes the search immediately.
//
// # mDNS Hints
//
// MDNSScanner browses DNS-SD for devices that advertise their description
// location in a TXT record. It is a fallback for networks where SSDP
// multicast is filtered.
//
// # Network Requirements
//
// - Multicast must be permitted on the chosen interfaces
// - Firewalls must allow inbound UDP to ephemeral ports from the LAN
//
// # Thread Safety
//
// An Engine may run any number of concurrent searches. Each Search owns its
// sockets and is independent of the others.
package discovery
