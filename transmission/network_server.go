package transmission

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Artiqlate/nicosia/comm"
	"github.com/Artiqlate/nicosia/models"
	"github.com/Artiqlate/nicosia/models/base"
	"github.com/vmihailenco/msgpack/v5"
	"nhooyr.io/websocket"
)

const DefaultPort = 8000

type NetworkTransmissionServer struct {
	moduleInitChan  chan []string
	moduleCloseChan chan bool
	httpServer      *http.Server
	serveMux        http.ServeMux
	writeChannel    chan models.Message
	commChannels    *comm.CommChannels
	port            int
	logf            func(f string, v ...interface{})

	// wsMu guards wsConn: the handler, the close path and the
	// single-connection gate all touch it from different goroutines.
	wsMu   sync.Mutex
	wsConn *websocket.Conn

	forwardLoopBreak chan struct{}
}

func NewNetworkTransmissionServer(port int, writeChannel chan models.Message, moduleOutputChan chan []string, moduleCloseChan chan bool, commChannels *comm.CommChannels) *NetworkTransmissionServer {
	if port == 0 {
		port = DefaultPort
	}
	newNT := &NetworkTransmissionServer{
		moduleInitChan:   moduleOutputChan,
		moduleCloseChan:  moduleCloseChan,
		commChannels:     commChannels,
		writeChannel:     writeChannel,
		port:             port,
		logf:             log.Printf,
		forwardLoopBreak: make(chan struct{}),
	}
	newNT.serveMux.HandleFunc("/", newNT.WebsocketHandler)
	return newNT
}

// -- COROUTINE FOR SERVER
func (nt *NetworkTransmissionServer) Coroutine(errChan chan error) {
	addresses, addrErr := getAvailableIPAddresses()
	if addrErr == nil {
		nt.logf("serving on port %d, reachable at %v", nt.port, addresses)
	}
	go nt.forwardLoop()
	errChan <- nt.Serve()
}

// -- SUBSYSTEM REPLY FORWARDING

// forwardLoop pumps subsystem replies and poll events into the websocket
// write channel. Without it, module output has no path to the client.
func (nt *NetworkTransmissionServer) forwardLoop() {
	for {
		select {
		case forwardObject := <-nt.commChannels.MPChannel.OutChannel:
			select {
			case nt.writeChannel <- forwardObject:
			case <-nt.forwardLoopBreak:
				return
			}
		case <-nt.forwardLoopBreak:
			return
		}
	}
}

// -- DATA DECODE AND PARSING
func (nt *NetworkTransmissionServer) decodeData(data []byte) error {
	// Initialize the decoder object
	decoder := msgpack.NewDecoder(bytes.NewReader(data))

	// Decode length of the array. If it's less than 2, there are no
	// arguments to the method.
	arrLen, arrLenErr := decoder.DecodeArrayLen()
	if arrLenErr != nil {
		return arrLenErr
	}
	if arrLen < 1 {
		return fmt.Errorf("empty RPC frame")
	}

	// Command must be the first element
	methodAndSubsystem, msDecodeErr := decoder.DecodeString()
	if msDecodeErr != nil {
		return msDecodeErr
	}

	// Parse subsystem and method. Assign method as subsystem if the frame
	// carries a bare method: "ping" cuts to ("ping", ""), "mp:status"
	// cuts to ("mp", "status").
	subsystem, method, subsystemMethodExists := strings.Cut(methodAndSubsystem, ":")

	switch subsystem {
	// Add all subsystem-based methods here
	case "mp":
		if !subsystemMethodExists {
			nt.logf("mp frame without method")
			return nil
		}
		// Pass the data directly as the decoder has internal state we
		// don't want to work with
		nt.commChannels.MPChannel.InChannel <- data
	case "ping":
		if arrLen < 2 {
			nt.logf("ping without payload")
			return nil
		}
		ping, pingErr := base.DecodePing(decoder)
		if pingErr != nil {
			nt.logf("Ping err: %v", pingErr)
			return nil
		}
		// Send it to main server module for processing
		nt.moduleInitChan <- ping.Capabilities
	default:
		nt.logf("unknown subsystem %q (method %q)", subsystem, method)
	}
	return nil
}

func (nt *NetworkTransmissionServer) write(ctx context.Context, conn *websocket.Conn, msgData models.Message) error {
	encodedData, marshalErr := msgpack.Marshal(&msgData)
	if marshalErr != nil {
		return marshalErr
	}
	return conn.Write(ctx, websocket.MessageBinary, encodedData)
}

// -- HTTP SPECIFIC --

// -- Start Server
func (nt *NetworkTransmissionServer) Serve() error {
	nt.httpServer = &http.Server{
		Handler:      &nt.serveMux,
		Addr:         fmt.Sprintf(":%d", nt.port),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
	}

	return nt.httpServer.ListenAndServe()
}

// -- Shutdown Server
func (nt *NetworkTransmissionServer) Shutdown(context context.Context) error {
	close(nt.forwardLoopBreak)
	if nt.httpServer == nil {
		return nil
	}
	return nt.httpServer.Shutdown(context)
}

// -- WEBSOCKET-SPECIFIC --

// - UPGRADE TO WS
func (nt *NetworkTransmissionServer) upgradeToWebsockets(w http.ResponseWriter, req *http.Request) (*websocket.Conn, error) {
	nt.wsMu.Lock()
	alreadyConnected := nt.wsConn != nil
	nt.wsMu.Unlock()
	if alreadyConnected {
		http.Error(w, "Server already connected, cannot accept more connections.", http.StatusLocked)
		return nil, fmt.Errorf("connection already established")
	}
	wsConn, wsConnAcceptErr := websocket.Accept(w, req, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if wsConnAcceptErr != nil {
		return nil, fmt.Errorf("wsConnAcceptErr %v", wsConnAcceptErr)
	}
	nt.wsMu.Lock()
	if nt.wsConn != nil {
		nt.wsMu.Unlock()
		wsConn.Close(websocket.StatusPolicyViolation, "ALREADY CONNECTED")
		return nil, fmt.Errorf("connection already established")
	}
	nt.wsConn = wsConn
	nt.wsMu.Unlock()
	return wsConn, nil
}

// - WEBSOCKET CLOSE
func (nt *NetworkTransmissionServer) wsClose(statusCode websocket.StatusCode, reason string) {
	nt.wsMu.Lock()
	defer nt.wsMu.Unlock()
	if nt.wsConn != nil {
		nt.logf("WS Connection Closing")
		nt.wsConn.Close(statusCode, reason)
		nt.wsConn = nil
	}
}

// - WS REQUEST HANDLER
func (nt *NetworkTransmissionServer) WebsocketHandler(w http.ResponseWriter, req *http.Request) {
	// Upgrade to websockets if possible
	wsConn, wsUpgrdErr := nt.upgradeToWebsockets(w, req)
	if wsUpgrdErr != nil {
		nt.logf("WS Upgrade Error: %v", wsUpgrdErr)
		return
	}
	// Make sure to close the connecction if something goes wrong
	defer nt.wsClose(websocket.StatusInternalError, "SERVER ERROR")

	// Setup function context
	ctx := context.Background()

	// Run the write loop for the lifetime of this connection
	connDone := make(chan struct{})
	defer close(connDone)
	go nt.writeLoop(ctx, wsConn, connDone)

	readErr := nt.readLoop(ctx, wsConn)
	if readErr != nil {
		nt.logf("Read Error: %v", readErr)
	} else {
		nt.wsClose(websocket.StatusNormalClosure, "THANK YOU")
	}

	// Let the server module wind modules down while no client is
	// connected. Skipped when the server is already shutting down.
	select {
	case nt.moduleCloseChan <- true:
	default:
	}
}

// -- READ AND WRITE LOOPS

func (nt *NetworkTransmissionServer) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, readErr := conn.Read(ctx)
		if readErr != nil {
			if websocket.CloseStatus(readErr) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(readErr) == websocket.StatusGoingAway {
				break
			}
			return readErr
		}
		decodeErr := nt.decodeData(data)
		if decodeErr != nil {
			nt.logf("decode error: %v", decodeErr)
		}
	}
	return nil
}

func (nt *NetworkTransmissionServer) writeLoop(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	for {
		select {
		case writeObject := <-nt.writeChannel:
			if writeErr := nt.write(ctx, conn, writeObject); writeErr != nil {
				nt.logf("write error: %v", writeErr)
			}
		case <-done:
			return
		}
	}
}
