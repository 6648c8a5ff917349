package subsystems

import (
	"fmt"

	"github.com/grandcat/zeroconf"
)

const (
	InstanceName = "Nicosia"
	Service      = "_nicosia._tcp"
)

type NetworkDiscovery struct {
	server *zeroconf.Server
}

// NewNetworkDiscovery announces the bridge on the local network so the
// controlling platform can find it without static configuration.
func NewNetworkDiscovery(port int, playerName string) (*NetworkDiscovery, error) {
	zcServer, registerErr := zeroconf.Register(
		InstanceName,
		Service,
		"local.",
		port,
		// If more information needs to be passed, add it here.
		[]string{fmt.Sprintf("player=%s", playerName)},
		nil,
	)
	if registerErr != nil {
		return nil, registerErr
	}
	return &NetworkDiscovery{zcServer}, nil
}

func (nt *NetworkDiscovery) Shutdown() {
	nt.server.Shutdown()
}
