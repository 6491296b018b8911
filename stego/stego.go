/*
Package stego implements the LSB steganographic codec used to hide source
code inside an art card.

The payload is a JSON object:

	{"header":"SNIPPIX","version":"1.0","encrypted":false,"timestamp":1700000000000,"code":"..."}

It is encoded as UTF-8 and prefixed with its length in bytes as a 32-bit big
endian integer. The resulting bit stream is written most significant bit
first into the least significant bit of the red, green and blue channels of
each pixel in raster order. Alpha is never touched, so a w by h raster holds
w*h*3 bits.

When encryption is requested the code is XORed with a repeating key over
UTF-16 code units before it is serialized. There is no integrity check:
decoding with the wrong key succeeds and returns garbled text.
*/
package stego

import "errors"

const (
	// Header identifies a payload written by this package
	Header = "SNIPPIX"
	// Version is the payload format version
	Version = "1.0"
	// Method names the embedding technique in every Result
	Method = "LSB"
	// MaxPayload is the largest payload in bytes that Decode will accept
	MaxPayload = 200000

	lengthBits       = 32
	channelsPerPixel = 3
)

var (
	// ErrCapacity is returned by Embed when the payload does not fit
	ErrCapacity = errors.New("stego: not enough capacity")
	// ErrEmptyKey is returned by Embed when encryption is requested without
	// a key
	ErrEmptyKey = errors.New("stego: encryption requested without a key")
	// ErrInvalidLength is returned when the length header is zero or
	// larger than MaxPayload
	ErrInvalidLength = errors.New("stego: invalid length")
	// ErrIncomplete is returned when the length header claims more bits
	// than the raster holds
	ErrIncomplete = errors.New("stego: payload exceeds raster capacity")
	// ErrInvalidFormat is returned when the payload is not valid JSON or is
	// missing a required field
	ErrInvalidFormat = errors.New("stego: invalid payload format")
	// ErrNotRecognized is returned when the payload header is missing or
	// wrong
	ErrNotRecognized = errors.New("stego: not a recognized art card")
	// ErrKeyRequired is returned when the payload is encrypted and no key
	// was supplied
	ErrKeyRequired = errors.New("stego: payload is encrypted, key required")
)

// Capacity returns the number of bits a w by h raster can carry
func Capacity(w, h int) int {
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h * channelsPerPixel
}
