package container

import (
	"bytes"
	"encoding/base64"
	"fmt"
)

// PayloadChunkSize is the slice length fed to the base64 encoder.
const PayloadChunkSize = 8192

// EncodePayload base64-encodes data by streaming fixed-size chunks through a
// single encoder, so the output equals a one-shot standard encoding.
func EncodePayload(data []byte) string {
	var buf bytes.Buffer
	buf.Grow(base64.StdEncoding.EncodedLen(len(data)))
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	for start := 0; start < len(data); start += PayloadChunkSize {
		end := min(start+PayloadChunkSize, len(data))
		// bytes.Buffer writes cannot fail.
		_, _ = enc.Write(data[start:end])
	}
	_ = enc.Close()
	return buf.String()
}

// DecodePayload reverses EncodePayload.
func DecodePayload(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return data, nil
}
