package transmission

import (
	"net"
)

func getAvailableIPAddresses() ([]net.IP, error) {
	var availableIpAddresses []net.IP
	ifaces, ifacesErr := net.Interfaces()
	if ifacesErr != nil {
		return []net.IP{}, ifacesErr
	}
	for _, iface := range ifaces {
		// Ignore all loop-back and down interfaces
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}

		// Get addresses associated w/ the interface
		addresses, addrErr := iface.Addrs()
		if addrErr != nil {
			return []net.IP{}, addrErr
		}

		// Iterate over the addresses
		for _, addr := range addresses {
			// Check if address is an IP Address
			ip, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			// Only IPv4 addresses are announced
			if ip.IP.To4() == nil {
				continue
			}
			availableIpAddresses = append(availableIpAddresses, ip.IP)
		}
	}
	return availableIpAddresses, nil
}
