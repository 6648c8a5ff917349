package base

import (
	"github.com/Artiqlate/nicosia/models"
	"github.com/vmihailenco/msgpack/v5"
)

// Init is the reply to a handshake: the list of modules that actually came
// up on the server side.
type Init struct {
	Capabilities []string
}

func NewInitFromArgs(capabilities []string) *Init {
	return &Init{Capabilities: capabilities}
}

// GenMessage wraps the init payload into an RPC frame with the given reply
// method ("rinit").
func (i *Init) GenMessage(method string) *models.Message {
	return &models.Message{Method: method, Args: i}
}

func DecodeInit(decoder *msgpack.Decoder) (*Init, error) {
	var initVal Init
	decodeErr := decoder.Decode(&initVal)
	if decodeErr != nil {
		return nil, decodeErr
	}
	return &initVal, nil
}
