package stego

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"

	"github.com/icza/bitio"
)

// Result is the outcome of Decode. Failures are reported through Err and
// never as a panic.
type Result struct {
	Success bool
	Code    string
	Err     error
	Method  string
}

// Message returns the human readable failure, or an empty string on success
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// channels walks the R, G and B channels of each pixel in raster order
type channels struct {
	m    *image.NRGBA
	x, y int
	c    int
}

func newChannels(m *image.NRGBA) *channels {
	return &channels{
		m: m,
		x: m.Rect.Min.X,
		y: m.Rect.Min.Y,
	}
}

// next returns the Pix offset of the next channel. The caller is
// responsible for not walking past the end of the raster.
func (ch *channels) next() int {
	i := ch.m.PixOffset(ch.x, ch.y) + ch.c
	if ch.c++; ch.c == channelsPerPixel {
		ch.c = 0
		if ch.x++; ch.x == ch.m.Rect.Max.X {
			ch.x = ch.m.Rect.Min.X
			ch.y++
		}
	}
	return i
}

// read collects the least significant bits of the next n channels, most
// significant bit first
func (ch *channels) read(n int) ([]byte, error) {
	b := new(bytes.Buffer)
	w := bitio.NewWriter(b)
	for i := 0; i < n; i++ {
		if err := w.WriteBool(ch.m.Pix[ch.next()]&1 == 1); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func available(m *image.NRGBA) int {
	return Capacity(m.Rect.Dx(), m.Rect.Dy())
}

// embedBytes writes the length header and b into m. Nothing is modified if
// it does not fit.
func embedBytes(m *image.NRGBA, b []byte) error {
	need, have := lengthBits+len(b)*8, available(m)
	if need > have {
		return fmt.Errorf("%w: need %d bits, have %d", ErrCapacity, need, have)
	}

	stream := new(bytes.Buffer)
	w := bitio.NewWriter(stream)
	if err := w.WriteBits(uint64(len(b)), lengthBits); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	r := bitio.NewReader(stream)
	ch := newChannels(m)
	for i := 0; i < need; i++ {
		bit, err := r.ReadBool()
		if err != nil {
			return err
		}
		if p := ch.next(); bit {
			m.Pix[p] |= 1
		} else {
			m.Pix[p] &^= 1
		}
	}

	return nil
}

// Embed hides code in the least significant bits of m. It must be the last
// modification made to m; anything painted afterwards can destroy the
// payload. On error m is left unchanged.
func Embed(m *image.NRGBA, code string, opts Options) error {
	p, err := newPayload(code, opts)
	if err != nil {
		return err
	}
	b, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	return embedBytes(m, b)
}

// readLength returns the length header, or an error if the raster is too
// small to hold it
func readLength(ch *channels, have int) (int, error) {
	if have < lengthBits {
		return 0, fmt.Errorf("%w: raster holds only %d bits", ErrIncomplete, have)
	}
	b, err := ch.read(lengthBits)
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint32(b)), nil
}

func extract(m *image.NRGBA) (*Payload, error) {
	have := available(m)
	ch := newChannels(m)

	length, err := readLength(ch, have)
	if err != nil {
		return nil, err
	}
	if length <= 0 || length > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, length)
	}
	if need := lengthBits + length*8; need > have {
		return nil, fmt.Errorf("%w: need %d bits, have %d", ErrIncomplete, need, have)
	}

	b, err := ch.read(length * 8)
	if err != nil {
		return nil, err
	}

	p := new(Payload)
	if err := p.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return p, nil
}

// NRGBA returns m as an *image.NRGBA, converting it if necessary
func NRGBA(m image.Image) *image.NRGBA {
	if n, ok := m.(*image.NRGBA); ok {
		return n
	}
	b := m.Bounds()
	n := image.NewNRGBA(b)
	draw.Draw(n, b, m, b.Min, draw.Src)
	return n
}

// Decode recovers the code hidden in m. If the payload is encrypted key is
// used to decrypt it; a wrong key is not detected and yields garbled code.
func Decode(m image.Image, key string) Result {
	p, err := extract(NRGBA(m))
	if err != nil {
		return Result{Err: err, Method: Method}
	}

	code := p.Code
	if p.Encrypted {
		if key == "" {
			return Result{Err: ErrKeyRequired, Method: Method}
		}
		code = code.XOR(key)
	}

	return Result{
		Success: true,
		Code:    code.String(),
		Method:  Method,
	}
}

// Detect reports whether m appears to carry a payload, judged from the
// length header alone
func Detect(m image.Image) bool {
	n := NRGBA(m)
	have := available(n)
	length, err := readLength(newChannels(n), have)
	if err != nil {
		return false
	}
	return length > 0 && length <= MaxPayload && lengthBits+length*8 <= have
}
