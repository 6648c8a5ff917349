package base

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vmihailenco/msgpack/v5"
)

func TestPingRoundTrip(t *testing.T) {
	// Create variables for managing race conditions
	var producerLock sync.WaitGroup

	// Create byte-channel and unserialized parsing channel (for comparison)
	byteChannel := make(chan []byte, 20)
	unparsedChannel := make(chan Ping, 20)

	// Data Producer Coroutine
	producerLock.Add(1)
	go func() {
		defer producerLock.Done()
		for i := 0; i < 20; i++ {
			pingObj, newPingErr := NewPing("Hello, World!", []string{"mp"})
			if newPingErr != nil {
				t.Errorf("cannot generate serializable: %v", newPingErr)
				return
			}
			binaryEncoded, encodeErr := pingObj.Encode()
			if encodeErr != nil {
				t.Errorf("cannot encode into msgpack: %v", encodeErr)
				return
			}
			byteChannel <- binaryEncoded
			unparsedChannel <- *pingObj
		}
		close(byteChannel)
		close(unparsedChannel)
	}()

	// Data Consumer
	for unparsedBinary := range byteChannel {
		decoder := msgpack.NewDecoder(bytes.NewReader(unparsedBinary))
		parsedSerObj, decodeErr := DecodePing(decoder)
		if decodeErr != nil {
			t.Fatalf("cannot decode parsed value: %v", decodeErr)
		}
		unserialObj := <-unparsedChannel
		assert.Equal(t, unserialObj.GetId(), parsedSerObj.GetId())
		assert.Equal(t, unserialObj.GetType(), parsedSerObj.GetType())
		assert.Equal(t,
			unserialObj.GetTimestamp().Format(time.RFC3339),
			parsedSerObj.GetTimestamp().Format(time.RFC3339))
		assert.Equal(t, []string{"mp"}, parsedSerObj.Capabilities)
	}

	producerLock.Wait()
}

func TestInitMessage(t *testing.T) {
	initMsg := NewInitFromArgs([]string{"mp"}).GenMessage("rinit")
	assert.Equal(t, "rinit", initMsg.Method)

	encoded, marshalErr := msgpack.Marshal(initMsg)
	assert.NoError(t, marshalErr)
	assert.NotEmpty(t, encoded)
}
