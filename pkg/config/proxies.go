package config

import (
	"fmt"
	"net/netip"
)

// ParseTrustedProxies parses IP addresses and CIDR ranges. A bare address
// becomes a single-host prefix (/32 or /128).
//
//	prefixes, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.1"})
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			addr, addrErr := netip.ParseAddr(entry)
			if addrErr != nil {
				return nil, fmt.Errorf("invalid IP or CIDR %q: must be an address (192.0.2.1) or a range (10.0.0.0/8)", entry)
			}
			prefix = netip.PrefixFrom(addr, addr.BitLen())
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return prefixes, nil
}
