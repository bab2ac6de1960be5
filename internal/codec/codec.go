// Package codec converts binary attachments (contact photos) to text.
//
// The encoding is standard padded base64: every 3 input bytes become 4 symbols from
// A-Z a-z 0-9 + /, and a final partial group is padded with '=' to a 4-symbol boundary.
// Only encoding is provided.
package codec

import "encoding/base64"

// EncodedLen returns the length of Encode's output for n input bytes.
func EncodedLen(n int) int {
	return base64.StdEncoding.EncodedLen(n)
}

// Encode returns the padded base64 text of b. Empty input yields "".
func Encode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}
