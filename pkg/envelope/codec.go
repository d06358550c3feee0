package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format is a wire encoding for envelopes.
type Format int

const (
	JSON Format = iota
	MsgPack
)

const (
	MIMEJSON    = "application/json"
	MIMEMsgPack = "application/msgpack"
)

// Negotiate picks the response format from an Accept header. Anything that does not ask
// for msgpack gets JSON.
func Negotiate(accept string) Format {
	for _, part := range strings.Split(accept, ",") {
		mt := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch strings.ToLower(mt) {
		case MIMEMsgPack, "application/x-msgpack", "application/vnd.msgpack":
			return MsgPack
		}
	}
	return JSON
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == MsgPack {
		return MIMEMsgPack
	}
	return MIMEJSON
}

func (f Format) String() string {
	if f == MsgPack {
		return "msgpack"
	}
	return "json"
}

// Marshal encodes v in format f. msgpack output reuses the json struct tags so both
// formats carry the same field names.
func Marshal(f Format, v any) ([]byte, error) {
	if f == JSON {
		return json.Marshal(v)
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("msgpack encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data in format f into v.
func Unmarshal(f Format, data []byte, v any) error {
	if f == JSON {
		return json.Unmarshal(data, v)
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("msgpack decode: %w", err)
	}
	return nil
}

// Raw is a decoded envelope whose result has not been interpreted yet.
type Raw struct {
	Code    int
	Message string
	Type    string

	format Format
	result []byte
}

type rawJSON struct {
	Code    int             `json:"code"`
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
	Type    string          `json:"type"`
}

type rawMsgPack struct {
	Code    int                `json:"code"`
	Result  msgpack.RawMessage `json:"result"`
	Message string             `json:"message"`
	Type    string             `json:"type"`
}

// Decode reads an envelope encoded in format f.
func Decode(f Format, data []byte) (*Raw, error) {
	if f == JSON {
		var r rawJSON
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		return &Raw{Code: r.Code, Message: r.Message, Type: r.Type, format: f, result: r.Result}, nil
	}
	var r rawMsgPack
	if err := Unmarshal(f, data, &r); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &Raw{Code: r.Code, Message: r.Message, Type: r.Type, format: f, result: r.Result}, nil
}

// OK reports whether the envelope signals success.
func (r *Raw) OK() bool {
	return r.Code == CodeSuccess && r.Type == TypeSuccess
}

// Into decodes the result payload into v.
func (r *Raw) Into(v any) error {
	if len(r.result) == 0 {
		return fmt.Errorf("envelope has no result")
	}
	return Unmarshal(r.format, r.result, v)
}
