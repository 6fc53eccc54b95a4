package converter

import (
	"errors"
	"fmt"
)

// ErrTruncatedRegion is returned when an encoded region does not fit in the buffer
var ErrTruncatedRegion = errors.New("truncated region")

// Packed chunks are one header byte holding the stripped high bits followed
// by up to seven 7-bit payload bytes.
const (
	chunkSize    = 8
	chunkPayload = chunkSize - 1
)

// DataLengthToByteLength returns the decoded size of an encoded region of
// dataLength bytes
func DataLengthToByteLength(dataLength int) int {
	if dataLength <= 0 {
		return 0
	}
	n := (dataLength / chunkSize) * chunkPayload
	if r := dataLength % chunkSize; r > 0 {
		n += r - 1
	}
	return n
}

// DecodeRegion unpacks length encoded bytes of buf starting at start
func DecodeRegion(start, length int, buf []byte) ([]byte, error) {
	if start < 0 || length < 0 || start > len(buf) || length > len(buf)-start {
		return nil, fmt.Errorf("%w: %d bytes at offset %d, buffer is %d bytes",
			ErrTruncatedRegion, length, start, len(buf))
	}

	out := make([]byte, 0, DataLengthToByteLength(length))
	ix, end := start, start+length
	for ix < end {
		n := chunkSize
		if ix+chunkSize >= end {
			n = end - ix
		}
		// a lone header byte carries no payload
		if n < 2 {
			break
		}
		msbs := buf[ix]
		mask := byte(0x40)
		for k := 1; k < n; k++ {
			out = append(out, (msbs&mask)<<k|buf[ix+k])
			mask >>= 1
		}
		ix += n
	}
	return out, nil
}

// EncodeRegion packs data into 7-bit clean chunks, the inverse of DecodeRegion
func EncodeRegion(data []byte) []byte {
	out := make([]byte, 0, len(data)+(len(data)+chunkPayload-1)/chunkPayload)
	for len(data) > 0 {
		n := chunkPayload
		if len(data) < n {
			n = len(data)
		}
		var msbs byte
		for k, b := range data[:n] {
			msbs |= (b & 0x80) >> (k + 1)
		}
		out = append(out, msbs)
		for _, b := range data[:n] {
			out = append(out, b&0x7F)
		}
		data = data[n:]
	}
	return out
}
