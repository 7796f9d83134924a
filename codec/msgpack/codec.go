package msgpack

import (
	"bytes"

	"github.com/ezraisw/joblock/codec"
	"github.com/vmihailenco/msgpack/v5"
)

type msgpackCodec struct {
}

func NewCodec() codec.Codec {
	return &msgpackCodec{}
}

func (c msgpackCodec) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	// Go map iteration is random.
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
