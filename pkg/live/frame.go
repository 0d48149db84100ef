package live

import (
	"encoding/json"
	"errors"

	aerrors "github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/dom"
)

// Frame is one server to client message.
type Frame struct {
	// Seq increases by one per frame within a session.
	Seq uint64 `json:"seq"`

	// Root is the ID of the container node. Only set on the first frame.
	Root uint64 `json:"root,omitempty"`

	Mutations []dom.Mutation `json:"mutations"`

	// Error carries the code and message of a rejected write.
	Error *FrameError `json:"error,omitempty"`
}

// FrameError reports a rejected client write.
type FrameError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Write is a client request to set the signal registered under Key.
type Write struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// DecodeWrite parses a client message.
func DecodeWrite(data []byte) (Write, error) {
	var w Write
	if err := json.Unmarshal(data, &w); err != nil {
		return Write{}, aerrors.New("E060").Wrap(err)
	}
	if w.Key == "" || len(w.Value) == 0 {
		return Write{}, aerrors.New("E060").WithDetail("key and value are required")
	}
	return w, nil
}

func frameError(err error) *FrameError {
	fe := &FrameError{Message: err.Error()}
	var ae *aerrors.AnchorError
	if errors.As(err, &ae) {
		fe.Code = ae.Code
	}
	return fe
}
