package stego

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/bodgit/snippix/art"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2023, time.November, 14, 22, 13, 20, 0, time.UTC)

func newRaster(w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		// Arbitrary but repeatable content with mixed low bits
		m.Pix[i] = byte(i*7 + i/3)
	}
	return m
}

func clone(m *image.NRGBA) *image.NRGBA {
	n := *m
	n.Pix = append([]byte(nil), m.Pix...)
	return &n
}

func TestRoundTrip(t *testing.T) {
	tables := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"ascii", "console.log('hello world');"},
		{"multi-byte", "console.log('hi, 世界 🌍')"},
		{"json characters", "{\"a\": [1, 2, \"<&>\"]}\n\t\\   \x01"},
		{"long", strings.Repeat("fn main() { println!(\"héllo 世界\"); }\n", 300)},
		{"long cjk", strings.Repeat("漢字かなカナ한국어", 1500)},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			m := newRaster(art.DefaultWidth, art.DefaultHeight)
			require.NoError(t, Embed(m, table.code, Options{}))

			r := Decode(m, "")
			require.NoError(t, r.Err)
			assert.True(t, r.Success)
			assert.Equal(t, table.code, r.Code)
			assert.Equal(t, Method, r.Method)
			assert.True(t, Detect(m))
		})
	}
}

func TestLongInputOver10000Characters(t *testing.T) {
	code := strings.Repeat("a😀", 6000)
	require.Greater(t, len(NewText(code)), 10000)

	m := newRaster(art.DefaultWidth, art.DefaultHeight)
	require.NoError(t, Embed(m, code, Options{}))
	assert.Equal(t, code, Decode(m, "").Code)
}

func TestEncryptedRoundTrip(t *testing.T) {
	tables := []struct {
		name string
		code string
		key  string
	}{
		{"ascii key", "console.log('hi, 世界 🌍')", "secret"},
		{"non-ascii key splits surrogates", "emoji 🌍🚀 and ascii", "ключ🔑"},
		{"key longer than code", "ab", "a much longer key"},
		{"empty code", "", "secret"},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			m := newRaster(200, 100)
			require.NoError(t, Embed(m, table.code, Options{Encrypt: true, Key: table.key}))

			r := Decode(m, table.key)
			require.True(t, r.Success, "%v", r.Err)
			assert.Equal(t, table.code, r.Code)
		})
	}
}

func TestWrongKey(t *testing.T) {
	code := "console.log('hi, 世界 🌍')"
	m := newRaster(200, 100)
	require.NoError(t, Embed(m, code, Options{Encrypt: true, Key: "secret"}))

	r := Decode(m, "wrong")
	assert.True(t, r.Success)
	assert.NoError(t, r.Err)
	assert.NotEqual(t, code, r.Code)
}

func TestKeyRequired(t *testing.T) {
	m := newRaster(200, 100)
	require.NoError(t, Embed(m, "secret stuff", Options{Encrypt: true, Key: "k"}))

	r := Decode(m, "")
	assert.False(t, r.Success)
	assert.ErrorIs(t, r.Err, ErrKeyRequired)
	assert.Empty(t, r.Code)
}

func TestEmptyKey(t *testing.T) {
	m := newRaster(200, 100)
	before := clone(m)
	assert.ErrorIs(t, Embed(m, "x", Options{Encrypt: true}), ErrEmptyKey)
	assert.Equal(t, before.Pix, m.Pix)
}

func TestUnencryptedIgnoresKey(t *testing.T) {
	m := newRaster(200, 100)
	require.NoError(t, Embed(m, "plain", Options{}))
	assert.Equal(t, "plain", Decode(m, "unused").Code)
}

// Find a code needing a number of bits with the given remainder mod 3
func codeWithRemainder(t *testing.T, opts Options, rem int) (string, int) {
	t.Helper()
	code := "x"
	for i := 0; i < 3; i++ {
		bits, err := RequiredBits(code, opts)
		require.NoError(t, err)
		if bits%channelsPerPixel == rem {
			return code, bits
		}
		code += "y"
	}
	t.Fatal("no code found")
	return "", 0
}

func TestCapacityBoundary(t *testing.T) {
	opts := Options{Timestamp: fixed}

	t.Run("exact fit", func(t *testing.T) {
		code, bits := codeWithRemainder(t, opts, 0)
		m := newRaster(bits/channelsPerPixel, 1)
		require.Equal(t, bits, Capacity(m.Rect.Dx(), m.Rect.Dy()))

		require.NoError(t, Embed(m, code, opts))
		assert.Equal(t, code, Decode(m, "").Code)
	})

	t.Run("one bit over", func(t *testing.T) {
		code, bits := codeWithRemainder(t, opts, 1)
		m := newRaster((bits-1)/channelsPerPixel, 1)
		require.Equal(t, bits-1, Capacity(m.Rect.Dx(), m.Rect.Dy()))

		before := clone(m)
		err := Embed(m, code, opts)
		assert.ErrorIs(t, err, ErrCapacity)
		assert.Equal(t, before.Pix, m.Pix)
	})
}

func TestEmbedTouchesOnlyLowBits(t *testing.T) {
	m := newRaster(100, 50)
	before := clone(m)
	opts := Options{Timestamp: fixed}
	require.NoError(t, Embed(m, "package main", opts))

	bits, err := RequiredBits("package main", opts)
	require.NoError(t, err)

	used := 0
	for i := range m.Pix {
		switch {
		case i%4 == 3:
			assert.Equal(t, before.Pix[i], m.Pix[i], "alpha changed at %d", i)
		case used < bits:
			assert.Equal(t, before.Pix[i]&0xfe, m.Pix[i]&0xfe, "high bits changed at %d", i)
			used++
		default:
			assert.Equal(t, before.Pix[i], m.Pix[i], "trailing channel changed at %d", i)
		}
	}
}

func TestHeaderRejection(t *testing.T) {
	cfg := art.DefaultConfig()

	var rasters []*image.NRGBA
	for _, code := range []string{"", "x", "func main() {}\n"} {
		a, err := art.Generate(code, cfg)
		require.NoError(t, err)
		rasters = append(rasters, a.Image)
	}
	rasters = append(rasters, newRaster(64, 64), image.NewNRGBA(image.Rect(0, 0, 64, 64)))

	for _, m := range rasters {
		r := Decode(m, "")
		assert.False(t, r.Success)
		assert.Error(t, r.Err)
		assert.Equal(t, Method, r.Method)
	}
}

func TestDecodeErrors(t *testing.T) {
	tables := []struct {
		name    string
		payload string
		err     error
	}{
		{"not json", "hello there", ErrInvalidFormat},
		{"not an object", "[1, 2, 3]", ErrInvalidFormat},
		{"no header", `{"version":"1.0","encrypted":false,"timestamp":1,"code":"x"}`, ErrNotRecognized},
		{"wrong header", `{"header":"OTHER","version":"1.0","encrypted":false,"timestamp":1,"code":"x"}`, ErrNotRecognized},
		{"header wrong type", `{"header":7,"version":"1.0","encrypted":false,"timestamp":1,"code":"x"}`, ErrNotRecognized},
		{"missing code", `{"header":"SNIPPIX","version":"1.0","encrypted":false,"timestamp":1}`, ErrInvalidFormat},
		{"null code", `{"header":"SNIPPIX","version":"1.0","encrypted":false,"timestamp":1,"code":null}`, ErrInvalidFormat},
		{"code wrong type", `{"header":"SNIPPIX","version":"1.0","encrypted":false,"timestamp":1,"code":42}`, ErrInvalidFormat},
		{"encrypted wrong type", `{"header":"SNIPPIX","version":"1.0","encrypted":"yes","timestamp":1,"code":"x"}`, ErrInvalidFormat},
		{"missing timestamp", `{"header":"SNIPPIX","version":"1.0","encrypted":false,"code":"x"}`, ErrInvalidFormat},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			m := newRaster(100, 100)
			require.NoError(t, embedBytes(m, []byte(table.payload)))

			r := Decode(m, "")
			assert.False(t, r.Success)
			assert.ErrorIs(t, r.Err, table.err)
		})
	}
}

func TestDecodeLengthErrors(t *testing.T) {
	// All low bits clear gives a zero length
	m := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	assert.ErrorIs(t, Decode(m, "").Err, ErrInvalidLength)
	assert.False(t, Detect(m))

	// All low bits set gives a length far beyond the limit
	for i := range m.Pix {
		m.Pix[i] = 0xff
	}
	assert.ErrorIs(t, Decode(m, "").Err, ErrInvalidLength)

	// A plausible length that the raster cannot hold
	m = newRaster(20, 20)
	require.NoError(t, embedBytes(m, make([]byte, 100)))
	small := m.SubImage(image.Rect(0, 0, 20, 5)).(*image.NRGBA)
	assert.ErrorIs(t, Decode(small, "").Err, ErrIncomplete)
	assert.False(t, Detect(small))

	// Too small for the length header itself
	tiny := newRaster(3, 3)
	assert.ErrorIs(t, Decode(tiny, "").Err, ErrIncomplete)
	assert.False(t, Detect(tiny))
}

func TestSubImage(t *testing.T) {
	m := newRaster(300, 200)
	sub := m.SubImage(image.Rect(50, 40, 250, 160)).(*image.NRGBA)
	before := clone(m)

	require.NoError(t, Embed(sub, "hidden in a window", Options{}))
	assert.Equal(t, "hidden in a window", Decode(sub, "").Code)

	// Pixels outside the window are untouched
	for y := 0; y < 200; y++ {
		for x := 0; x < 300; x++ {
			if (image.Point{x, y}).In(sub.Rect) {
				continue
			}
			if m.NRGBAAt(x, y) != before.NRGBAAt(x, y) {
				t.Fatalf("pixel %d,%d changed", x, y)
			}
		}
	}
}

func TestPNGRoundTrip(t *testing.T) {
	a, err := art.Generate("print('hi, 世界 🌍')", art.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, Embed(a.Image, "print('hi, 世界 🌍')", Options{Encrypt: true, Key: "secret"}))

	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, a.Image))

	m, err := png.Decode(b)
	require.NoError(t, err)

	r := Decode(m, "secret")
	require.True(t, r.Success, "%v", r.Err)
	assert.Equal(t, "print('hi, 世界 🌍')", r.Code)
}

func TestNRGBAConversion(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{1, 2, 3, 255})
	src.Set(1, 0, color.RGBA{254, 253, 252, 255})

	n := NRGBA(src)
	assert.Equal(t, color.NRGBA{1, 2, 3, 255}, n.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{254, 253, 252, 255}, n.NRGBAAt(1, 0))

	same := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	assert.Same(t, same, NRGBA(same))
}

func TestPayloadWireFormat(t *testing.T) {
	p, err := newPayload("a<b>&c", Options{Timestamp: fixed})
	require.NoError(t, err)

	b, err := p.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, `{"header":"SNIPPIX","version":"1.0","encrypted":false,"timestamp":1700000000000,"code":"a<b>&c"}`, string(b))

	bits, err := RequiredBits("a<b>&c", Options{Timestamp: fixed})
	require.NoError(t, err)
	assert.Equal(t, 32+len(b)*8, bits)

	var q Payload
	require.NoError(t, q.UnmarshalBinary(b))
	assert.Equal(t, *p, q)
}

func TestPayloadTimestampFarFuture(t *testing.T) {
	ts := time.Date(2300, time.January, 1, 0, 0, 0, 0, time.UTC)
	p, err := newPayload("x", Options{Timestamp: ts})
	require.NoError(t, err)
	assert.Equal(t, int64(10413792000000), p.Timestamp)

	b, err := p.MarshalBinary()
	require.NoError(t, err)

	var q Payload
	require.NoError(t, q.UnmarshalBinary(b))
	assert.Equal(t, p.Timestamp, q.Timestamp)
}

func TestRequiredBitsCountsBytes(t *testing.T) {
	opts := Options{Timestamp: fixed}
	ascii, err := RequiredBits("ab", opts)
	require.NoError(t, err)
	multi, err := RequiredBits("世界", opts)
	require.NoError(t, err)

	// Same number of characters, four more UTF-8 bytes
	assert.Equal(t, ascii+4*8, multi)

	_, err = RequiredBits("x", Options{Encrypt: true})
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 720000, Capacity(600, 400))
	assert.Equal(t, 0, Capacity(0, 400))
	assert.Equal(t, 0, Capacity(-1, 400))
}

func TestXOR(t *testing.T) {
	text := NewText("console.log('hi, 世界 🌍')")

	assert.Equal(t, text, text.XOR(""))
	assert.Equal(t, text, text.XOR("secret").XOR("secret"))
	assert.NotEqual(t, text, text.XOR("secret"))

	// 'a' ^ 'b' == 3
	assert.Equal(t, Text{3, 3}, NewText("aa").XOR("b"))
}

func TestTextJSON(t *testing.T) {
	tables := []struct {
		name string
		text Text
		json string
	}{
		{"plain", NewText("abc"), `"abc"`},
		{"escapes", NewText("\"\\\b\f\n\r\t\x01"), `"\"\\\b\f\n\r\t\u0001"`},
		{"no html escaping", NewText("<&>"), `"<&>"`},
		{"line separator", NewText("\u2028"), "\"\u2028\""},
		{"surrogate pair", NewText("🌍"), `"🌍"`},
		{"lone high surrogate", Text{'a', 0xd83c, 'b'}, `"a\ud83cb"`},
		{"lone low surrogate", Text{0xdf0d}, `"\udf0d"`},
		{"swapped pair", Text{0xdf0d, 0xd83c}, `"\udf0d\ud83c"`},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			b, err := table.text.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, table.json, string(b))

			var text Text
			require.NoError(t, json.Unmarshal(b, &text))
			assert.Equal(t, table.text, text)
		})
	}
}

func TestTextUnmarshalEscapes(t *testing.T) {
	var text Text
	require.NoError(t, json.Unmarshal([]byte(`"\/é🌍"`), &text))
	assert.Equal(t, "/é🌍", text.String())

	assert.Error(t, text.UnmarshalJSON([]byte(`42`)))
	assert.Error(t, text.UnmarshalJSON([]byte(`"\u12"`)))
	assert.Error(t, text.UnmarshalJSON([]byte(`"\x"`)))
}

func TestResultMessage(t *testing.T) {
	assert.Equal(t, "", Result{Success: true, Method: Method}.Message())
	assert.Equal(t, ErrKeyRequired.Error(), Result{Err: ErrKeyRequired, Method: Method}.Message())
}
