package nicosia

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/Artiqlate/nicosia/comm"
	"github.com/Artiqlate/nicosia/config"
	"github.com/Artiqlate/nicosia/models"
	"github.com/Artiqlate/nicosia/models/base"
	"github.com/Artiqlate/nicosia/subsystems"
	"github.com/Artiqlate/nicosia/transmission"
)

type ServerSignalChannels struct {
	moduleInitChannel  chan []string
	moduleCloseChannel chan bool
	netTransmissionErr chan error
	progSignals        chan os.Signal
	commChannels       *comm.CommChannels
}

func NewServerSignalChannels(moduleInitChan chan []string, moduleCloseChan chan bool) *ServerSignalChannels {
	return &ServerSignalChannels{
		moduleInitChannel:  moduleInitChan,
		moduleCloseChannel: moduleCloseChan,
		netTransmissionErr: make(chan error, 1),
		progSignals:        make(chan os.Signal, 1),
		commChannels:       comm.NewCommChannels(),
	}
}

type ServerModule struct {
	logf         func(string, ...interface{})
	cfg          config.Config
	writeChannel chan models.Message
	nt           *transmission.NetworkTransmissionServer
	mp           subsystems.MediaPlayerSubsystem
	discovery    *subsystems.NetworkDiscovery
	signals      *ServerSignalChannels
}

func NewServerModule(cfg config.Config) (*ServerModule, error) {
	moduleInitChan := make(chan []string, 20)
	// Buffered: a disconnect signal must land even if the routine is busy.
	moduleCloseChan := make(chan bool, 1)
	serverWriteChannel := make(chan models.Message)
	serverSignalChannels := NewServerSignalChannels(moduleInitChan, moduleCloseChan)
	logf := func(s string, i ...interface{}) {
		log.Printf("SRV: "+s, i...)
	}
	return &ServerModule{
		logf:         logf,
		cfg:          cfg,
		writeChannel: serverWriteChannel,
		nt: transmission.NewNetworkTransmissionServer(
			cfg.Server.Port,
			serverWriteChannel,
			moduleInitChan,
			moduleCloseChan,
			serverSignalChannels.commChannels,
		),
		signals: serverSignalChannels,
		// Modules: the "mp" media-player module comes up on handshake.
		mp: nil,
	}, nil
}

func (s *ServerModule) setup() {
	// Interrupt will hit this signal and unwind everything
	signal.Notify(s.signals.progSignals, os.Interrupt)

	if s.cfg.Server.Discovery {
		discovery, discoveryErr := subsystems.NewNetworkDiscovery(s.cfg.Server.Port, s.cfg.Player.Name)
		if discoveryErr != nil {
			s.logf("discovery disabled: %v", discoveryErr)
		} else {
			s.discovery = discovery
		}
	}
}

func (s *ServerModule) initializeModule(mods []string) []string {
	enabledModules := []string{}
	for _, mod := range mods {
		s.logf("Enabling module: %s", mod)
		switch mod {
		case "mp":
			if s.mp != nil {
				enabledModules = append(enabledModules, mod)
				continue
			}
			mPlayer, mPlayerErr := subsystems.NewMediaPlayerSubsystem(s.cfg, &s.signals.commChannels.MPChannel)
			if mPlayerErr != nil {
				s.logf("mPlayerErr: %v", mPlayerErr)
				continue
			}
			if setupErr := mPlayer.Setup(); setupErr != nil {
				s.logf("mp setup: %v", setupErr)
				continue
			}
			s.mp = mPlayer
			// Run media player coroutine
			go s.mp.Routine()
			enabledModules = append(enabledModules, mod)
		default:
			s.logf("unknown module %q requested", mod)
		}
	}
	return enabledModules
}

func (s *ServerModule) closeModule() {
	// -- MEDIA PLAYER
	if s.mp != nil {
		s.mp.Shutdown()
		s.mp = nil
	}
}

func (s *ServerModule) routine() {
routineForLoop:
	for {
		select {
		// Module Initialization Channel
		case initModule := <-s.signals.moduleInitChannel:
			initializedModules := s.initializeModule(initModule)
			s.logf("Initialized Modules: %s", initializedModules)
			s.writeChannel <- *base.NewInitFromArgs(initializedModules).GenMessage("rinit")
			continue routineForLoop
		// Module Close Channel
		case <-s.signals.moduleCloseChannel:
			s.logf("close triggered")
			s.closeModule()
		// If the server encounters an error
		case servErr := <-s.signals.netTransmissionErr:
			s.logf("NetworkTransmission error: %v", servErr)
			s.signals.netTransmissionErr <- servErr
			break routineForLoop
		// When Interrupt Calls are Sent
		case <-s.signals.progSignals:
			s.logf("Stopping")
			break routineForLoop
		}
	}
}

func (s *ServerModule) shutdown() {
	shutdownContext, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if len(s.signals.netTransmissionErr) != 0 {
		s.logf("server error: %v", <-s.signals.netTransmissionErr)
	}

	// -- DISCOVERY SHUTDOWN
	if s.discovery != nil {
		s.discovery.Shutdown()
	}

	// -- MEDIA PLAYER SHUTDOWN
	if s.mp != nil {
		s.mp.Shutdown()
		s.mp = nil
	}

	// -- NETWORK TRANSMISSION SHUTDOWN
	shutDownErr := s.nt.Shutdown(shutdownContext)
	if shutDownErr != nil {
		log.Fatalf("server shutdown err: %v", shutDownErr)
	}
}

func (s *ServerModule) Run() {
	// -- SETUP
	s.setup()
	s.logf("bridging player %q at %s", s.cfg.Player.Name,
		fmt.Sprintf("%s:%d", s.cfg.Player.Host, s.cfg.Player.Port))

	// -- TRANSMISSION MODULE --
	go s.nt.Coroutine(s.signals.netTransmissionErr)

	// -- RUN ROUTINE
	s.routine()

	// SHUT DOWN ALL MODULES
	s.shutdown()
}
