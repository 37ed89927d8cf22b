package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// JPEG marker bytes. Every marker is preceded by 0xFF on the wire.
const (
	markerSOI   = 0xD8
	markerSOS   = 0xDA
	markerAPP0  = 0xE0
	markerAPP1  = 0xE1
	markerAPP13 = 0xED
)

// segment is one marker segment between SOI and SOS. data excludes the
// two length bytes.
type segment struct {
	marker byte
	data   []byte
}

// splitJPEG parses a JPEG file into its header segments and the raw
// remainder starting at the SOS marker (scan header plus entropy-coded
// data plus EOI).
func splitJPEG(data []byte) ([]segment, []byte, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, nil, fmt.Errorf("not a JPEG file")
	}

	var segs []segment
	pos := 2
	for {
		if pos+4 > len(data) {
			return nil, nil, fmt.Errorf("truncated JPEG header at offset %d", pos)
		}
		if data[pos] != 0xFF {
			return nil, nil, fmt.Errorf("bad marker byte 0x%02X at offset %d", data[pos], pos)
		}
		marker := data[pos+1]
		if marker == markerSOS {
			return segs, data[pos:], nil
		}

		length := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		if length < 2 || pos+2+length > len(data) {
			return nil, nil, fmt.Errorf("bad segment length %d at offset %d", length, pos)
		}
		segs = append(segs, segment{
			marker: marker,
			data:   data[pos+4 : pos+2+length],
		})
		pos += 2 + length
	}
}

// joinJPEG reassembles a JPEG file from header segments and the raw
// scan remainder.
func joinJPEG(segs []segment, scan []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, markerSOI})
	for _, s := range segs {
		buf.Write([]byte{0xFF, s.marker})
		var length [2]byte
		binary.BigEndian.PutUint16(length[:], uint16(len(s.data)+2))
		buf.Write(length[:])
		buf.Write(s.data)
	}
	buf.Write(scan)
	return buf.Bytes()
}

// findSegment returns the index of the first segment with the given
// marker and payload prefix, or -1.
func findSegment(segs []segment, marker byte, prefix []byte) int {
	for i, s := range segs {
		if s.marker == marker && bytes.HasPrefix(s.data, prefix) {
			return i
		}
	}
	return -1
}

// upsertSegment replaces the matching segment in place, or inserts a
// new one after the last APP0/APP1 header segment so the metadata
// segments stay at the front of the file where readers expect them.
func upsertSegment(segs []segment, marker byte, prefix, payload []byte) []segment {
	if i := findSegment(segs, marker, prefix); i >= 0 {
		segs[i].data = payload
		return segs
	}

	insertAt := 0
	for i, s := range segs {
		if s.marker == markerAPP0 || s.marker == markerAPP1 {
			insertAt = i + 1
		}
	}
	out := make([]segment, 0, len(segs)+1)
	out = append(out, segs[:insertAt]...)
	out = append(out, segment{marker: marker, data: payload})
	out = append(out, segs[insertAt:]...)
	return out
}
