package metadata

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec defines the serialization contract for metadata records.
type Codec interface {
	// Encode serializes a record to bytes.
	Encode(md *Metadata) ([]byte, error)

	// Decode deserializes bytes into a record.
	Decode(data []byte) (*Metadata, error)

	// Name returns the codec identifier (e.g., "json", "msgpack").
	Name() string
}

// CodecName constants for format selection.
const (
	CodecNameJSON    = "json"
	CodecNameMsgpack = "msgpack"
)

// GetCodec returns a codec by name. Defaults to msgpack, the format
// checkpoint writers use.
func GetCodec(name string) Codec {
	switch name {
	case CodecNameJSON:
		return &JSONCodec{}
	case CodecNameMsgpack, "":
		return &MsgpackCodec{}
	default:
		return &MsgpackCodec{}
	}
}

// MsgpackCodec encodes/decodes metadata records as MessagePack.
type MsgpackCodec struct{}

func (c *MsgpackCodec) Encode(md *Metadata) ([]byte, error) {
	return msgpack.Marshal(md)
}

func (c *MsgpackCodec) Decode(data []byte) (*Metadata, error) {
	var md Metadata
	if err := msgpack.Unmarshal(data, &md); err != nil {
		return nil, err
	}
	return &md, nil
}

func (c *MsgpackCodec) Name() string { return CodecNameMsgpack }

// JSONCodec encodes/decodes metadata records as JSON.
type JSONCodec struct{}

func (c *JSONCodec) Encode(md *Metadata) ([]byte, error) {
	return json.Marshal(md)
}

func (c *JSONCodec) Decode(data []byte) (*Metadata, error) {
	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, err
	}
	return &md, nil
}

func (c *JSONCodec) Name() string { return CodecNameJSON }
