package stego

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Payload is the structure embedded in the raster
type Payload struct {
	Header    string `json:"header"`
	Version   string `json:"version"`
	Encrypted bool   `json:"encrypted"`
	Timestamp int64  `json:"timestamp"`
	Code      Text   `json:"code"`
}

// Options control how code is embedded
type Options struct {
	Encrypt bool
	Key     string

	// Timestamp recorded in the payload, the zero value means now
	Timestamp time.Time
}

func newPayload(code string, opts Options) (*Payload, error) {
	text := NewText(code)
	if opts.Encrypt {
		if opts.Key == "" {
			return nil, ErrEmptyKey
		}
		text = text.XOR(opts.Key)
	}

	ts := opts.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return &Payload{
		Header:    Header,
		Version:   Version,
		Encrypted: opts.Encrypt,
		Timestamp: ts.UnixMilli(),
		Code:      text,
	}, nil
}

// MarshalBinary returns the compact UTF-8 JSON form of the payload
func (p *Payload) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(b.Bytes(), []byte{'\n'}), nil
}

func field(fields map[string]json.RawMessage, name string, v interface{}) error {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return fmt.Errorf("missing field %q", name)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("field %q: %v", name, err)
	}
	return nil
}

// UnmarshalBinary parses and validates a payload. Every field must be
// present with the right type; the header is checked first so that foreign
// JSON is reported as not recognized.
func (p *Payload) UnmarshalBinary(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var header string
	if err := field(fields, "header", &header); err != nil || header != Header {
		return ErrNotRecognized
	}

	var (
		version   string
		encrypted bool
		timestamp float64
		code      Text
	)
	for _, f := range []struct {
		name string
		v    interface{}
	}{
		{"version", &version},
		{"encrypted", &encrypted},
		{"timestamp", &timestamp},
		{"code", &code},
	} {
		if err := field(fields, f.name, f.v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	}

	*p = Payload{
		Header:    header,
		Version:   version,
		Encrypted: encrypted,
		Timestamp: int64(timestamp),
		Code:      code,
	}

	return nil
}

// RequiredBits returns the exact number of bits Embed will write for code
// with the given options. Set opts.Timestamp to make the answer stable.
func RequiredBits(code string, opts Options) (int, error) {
	p, err := newPayload(code, opts)
	if err != nil {
		return 0, err
	}
	b, err := p.MarshalBinary()
	if err != nil {
		return 0, err
	}
	return lengthBits + len(b)*8, nil
}
