// Package codec serializes the persisted ledger and history blobs.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	NameJSON    = "json"
	NameMsgpack = "msgpack"
)

type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// ByName resolves a configured codec name. Empty selects JSON.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameJSON:
		return JSON(), nil
	case NameMsgpack:
		return Msgpack(), nil
	}
	return nil, fmt.Errorf("unknown codec %q (want %s or %s)", name, NameJSON, NameMsgpack)
}

type jsonCodec struct{}

// JSON keeps the blob shape the browser version wrote to local storage.
func JSON() Codec { return jsonCodec{} }

func (jsonCodec) Name() string                       { return NameJSON }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type msgpackCodec struct{}

func Msgpack() Codec { return msgpackCodec{} }

func (msgpackCodec) Name() string                       { return NameMsgpack }
func (msgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
