package codec

import (
	"encoding/base64"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "empty", in: []byte{}, want: ""},
		{name: "nil", in: nil, want: ""},
		{name: "one byte", in: []byte("M"), want: "TQ=="},
		{name: "two bytes", in: []byte("Ma"), want: "TWE="},
		{name: "three bytes", in: []byte("Man"), want: "TWFu"},
		{name: "four bytes", in: []byte("Many"), want: "TWFueQ=="},
		{name: "high bits", in: []byte{0xff, 0xfe, 0xfd}, want: "//79"},
		{name: "zero bytes", in: []byte{0, 0, 0, 0}, want: "AAAAAA=="},
		{name: "sentence", in: []byte("any carnal pleasure."), want: "YW55IGNhcm5hbCBwbGVhc3VyZS4="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.in))
		})
	}
}

func TestEncodeMatchesStandardDecoder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for n := 0; n < 300; n++ {
		b := make([]byte, n)
		rng.Read(b)

		got := Encode(b)

		assert.Len(t, got, EncodedLen(n))
		assert.Equal(t, (n+2)/3*4, len(got))
		assert.Equal(t, n == 0, got == "")

		decoded, err := base64.StdEncoding.DecodeString(got)
		require.NoError(t, err)
		assert.Equal(t, len(b), len(decoded))
		if n > 0 {
			assert.Equal(t, b, decoded)
		}
	}
}
