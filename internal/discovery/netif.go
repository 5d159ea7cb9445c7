package discovery

import (
	"fmt"
	"net"
	"slices"
)

// Interface is a local IPv4 address that discovery sends from
type Interface struct {
	// Name is the OS interface name (e.g., "eth0")
	Name string

	// Index is the OS interface index (0 when unknown)
	Index int

	// Addr is the IPv4 source address to bind
	Addr net.IP
}

// String returns "name(addr)"
func (i Interface) String() string {
	return fmt.Sprintf("%s(%s)", i.Name, i.Addr)
}

// Resolver enumerates the interfaces discovery should use
type Resolver interface {
	Interfaces() ([]Interface, error)
}

// StaticResolver returns a fixed interface list
type StaticResolver []Interface

// Interfaces implements Resolver
func (s StaticResolver) Interfaces() ([]Interface, error) {
	return slices.Clone(s), nil
}

// SystemResolver lists the host's up, multicast-capable, non-loopback
// interfaces with their IPv4 addresses.
type SystemResolver struct {
	// Allow restricts discovery to the named interfaces (empty = all)
	Allow []string
}

// Interfaces implements Resolver
func (r SystemResolver) Interfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list network interfaces: %w", err)
	}

	var result []Interface
	for _, ifi := range ifaces {
		addrs, err := ifi.Addrs()
		if err != nil {
			continue
		}
		result = append(result, usableAddrs(ifi, addrs, r.Allow)...)
	}
	return result, nil
}

// usableAddrs filters one interface's addresses down to multicast-capable
// IPv4 unicast sources
func usableAddrs(ifi net.Interface, addrs []net.Addr, allow []string) []Interface {
	if len(allow) > 0 && !slices.Contains(allow, ifi.Name) {
		return nil
	}
	if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagMulticast == 0 || ifi.Flags&net.FlagLoopback != 0 {
		return nil
	}

	var result []Interface
	for _, addr := range addrs {
		var ip net.IP
		switch a := addr.(type) {
		case *net.IPNet:
			ip = a.IP
		case *net.IPAddr:
			ip = a.IP
		}
		ip4 := ip.To4()
		if ip4 == nil || ip4.IsLoopback() || ip4.IsUnspecified() {
			continue
		}
		result = append(result, Interface{Name: ifi.Name, Index: ifi.Index, Addr: ip4})
	}
	return result
}
