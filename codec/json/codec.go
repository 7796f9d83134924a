package json

import (
	"encoding/json"

	"github.com/ezraisw/joblock/codec"
)

type jsonCodec struct {
}

// NewCodec returns a JSON codec. Map keys are emitted in sorted order.
func NewCodec() codec.Codec {
	return &jsonCodec{}
}

func (c jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}
