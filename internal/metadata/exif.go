package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sort"
)

// exifHeader prefixes the APP1 payload of an EXIF segment.
var exifHeader = []byte("Exif\x00\x00")

// exifTimeLayout is the EXIF timestamp format (colon-separated date).
const exifTimeLayout = "2006:01:02 15:04:05"

// TIFF field types used by this writer.
const (
	typeByte     uint16 = 1
	typeASCII    uint16 = 2
	typeShort    uint16 = 3
	typeLong     uint16 = 4
	typeRational uint16 = 5
)

// typeSize maps a TIFF field type to the byte size of one component.
// Types not listed here are treated as opaque bytes.
var typeSize = map[uint16]int{
	1: 1, 2: 1, 3: 2, 4: 4, 5: 8, 6: 1, 7: 1, 8: 2, 9: 4, 10: 8, 11: 4, 12: 8,
}

// Tags written by this package.
const (
	tagImageDescription uint16 = 0x010E
	tagExifIFDPointer   uint16 = 0x8769
	tagGPSIFDPointer    uint16 = 0x8825
	tagDateTimeOriginal uint16 = 0x9003

	tagGPSLatitudeRef  uint16 = 0x0001
	tagGPSLatitude     uint16 = 0x0002
	tagGPSLongitudeRef uint16 = 0x0003
	tagGPSLongitude    uint16 = 0x0004
)

// ifdEntry is one TIFF directory entry. value holds the component
// data in little-endian order regardless of the source byte order,
// never an offset.
type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte
}

// exifData is the decoded tag set of an EXIF block, grouped by
// directory. Pointer entries to the sub-directories are not stored;
// they are regenerated on encode.
type exifData struct {
	ifd0 []ifdEntry
	exif []ifdEntry
	gps  []ifdEntry
}

// writeEXIF rewrites the JPEG at path with the properties embedded in
// its EXIF segment. Existing EXIF tags not managed here survive.
func writeEXIF(path string, p Properties) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	segs, scan, err := splitJPEG(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	ex := &exifData{}
	if i := findSegment(segs, markerAPP1, exifHeader); i >= 0 {
		parsed, err := parseExif(segs[i].data[len(exifHeader):])
		if err == nil {
			ex = parsed
		}
		// An unparsable existing block is replaced wholesale.
	}

	ex.apply(p)

	payload := append(append([]byte{}, exifHeader...), ex.encode()...)
	segs = upsertSegment(segs, markerAPP1, exifHeader, payload)

	return rewriteFile(path, joinJPEG(segs, scan))
}

// apply sets the managed tags from the properties.
func (ex *exifData) apply(p Properties) {
	setASCII(&ex.exif, tagDateTimeOriginal, p.TakenAt.Format(exifTimeLayout))
	if p.Caption != "" {
		setASCII(&ex.ifd0, tagImageDescription, p.Caption)
	}
	if p.Location != nil {
		latRef, lat := toDMS(p.Location.Latitude, "N", "S")
		lonRef, lon := toDMS(p.Location.Longitude, "E", "W")
		setASCII(&ex.gps, tagGPSLatitudeRef, latRef)
		setRationals(&ex.gps, tagGPSLatitude, lat)
		setASCII(&ex.gps, tagGPSLongitudeRef, lonRef)
		setRationals(&ex.gps, tagGPSLongitude, lon)
	}
}

// toDMS converts decimal degrees into the EXIF rational triple
// (degrees, minutes, hundredths of a second) and the hemisphere
// reference letter.
func toDMS(value float64, pos, neg string) (ref string, rats [3][2]uint32) {
	ref = pos
	if value < 0 {
		ref = neg
		value = -value
	}
	deg := uint32(value)
	rem := (value - float64(deg)) * 60
	min := uint32(rem)
	sec := (rem - float64(min)) * 60

	rats[0] = [2]uint32{deg, 1}
	rats[1] = [2]uint32{min, 1}
	rats[2] = [2]uint32{uint32(sec * 100), 100}
	return ref, rats
}

// fromDMS converts a rational triple plus reference back into signed
// decimal degrees.
func fromDMS(ref string, rats [3][2]uint32) float64 {
	rat := func(r [2]uint32) float64 {
		if r[1] == 0 {
			return 0
		}
		return float64(r[0]) / float64(r[1])
	}
	value := rat(rats[0]) + rat(rats[1])/60 + rat(rats[2])/3600
	if ref == "S" || ref == "W" {
		value = -value
	}
	return value
}

// setASCII upserts a NUL-terminated ASCII entry.
func setASCII(ifd *[]ifdEntry, tag uint16, s string) {
	value := append([]byte(s), 0)
	upsertEntry(ifd, ifdEntry{tag: tag, typ: typeASCII, count: uint32(len(value)), value: value})
}

// setRationals upserts an unsigned rational entry.
func setRationals(ifd *[]ifdEntry, tag uint16, rats [3][2]uint32) {
	value := make([]byte, 0, len(rats)*8)
	for _, r := range rats {
		value = binary.LittleEndian.AppendUint32(value, r[0])
		value = binary.LittleEndian.AppendUint32(value, r[1])
	}
	upsertEntry(ifd, ifdEntry{tag: tag, typ: typeRational, count: uint32(len(rats)), value: value})
}

// upsertEntry replaces the entry with the same tag or inserts keeping
// ascending tag order, which TIFF requires.
func upsertEntry(ifd *[]ifdEntry, e ifdEntry) {
	for i := range *ifd {
		if (*ifd)[i].tag == e.tag {
			(*ifd)[i] = e
			return
		}
	}
	*ifd = append(*ifd, e)
	sort.Slice(*ifd, func(i, j int) bool { return (*ifd)[i].tag < (*ifd)[j].tag })
}

// parseExif decodes a TIFF block (either byte order) into grouped
// entries with values normalized to little-endian.
func parseExif(tiff []byte) (*exifData, error) {
	if len(tiff) < 8 {
		return nil, fmt.Errorf("EXIF block too short")
	}
	var order binary.ByteOrder
	switch {
	case tiff[0] == 'I' && tiff[1] == 'I':
		order = binary.LittleEndian
	case tiff[0] == 'M' && tiff[1] == 'M':
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("bad TIFF byte order mark")
	}
	if order.Uint16(tiff[2:4]) != 42 {
		return nil, fmt.Errorf("bad TIFF magic")
	}

	ex := &exifData{}
	ifd0, err := parseIFD(tiff, order.Uint32(tiff[4:8]), order)
	if err != nil {
		return nil, err
	}

	for _, e := range ifd0 {
		switch e.tag {
		case tagExifIFDPointer, tagGPSIFDPointer:
			if e.typ != typeLong || len(e.value) < 4 {
				continue
			}
			offset := binary.LittleEndian.Uint32(e.value[:4])
			sub, err := parseIFD(tiff, offset, order)
			if err != nil {
				continue
			}
			if e.tag == tagExifIFDPointer {
				ex.exif = sub
			} else {
				ex.gps = sub
			}
		default:
			ex.ifd0 = append(ex.ifd0, e)
		}
	}
	return ex, nil
}

// parseIFD reads one directory, resolving out-of-line values and
// converting component data to little-endian.
func parseIFD(tiff []byte, offset uint32, order binary.ByteOrder) ([]ifdEntry, error) {
	pos := int(offset)
	if pos+2 > len(tiff) {
		return nil, fmt.Errorf("IFD offset %d out of range", offset)
	}
	n := int(order.Uint16(tiff[pos : pos+2]))
	pos += 2

	var entries []ifdEntry
	for i := 0; i < n; i++ {
		if pos+12 > len(tiff) {
			return nil, fmt.Errorf("truncated IFD entry")
		}
		e := ifdEntry{
			tag:   order.Uint16(tiff[pos : pos+2]),
			typ:   order.Uint16(tiff[pos+2 : pos+4]),
			count: order.Uint32(tiff[pos+4 : pos+8]),
		}

		size := typeSize[e.typ]
		if size == 0 {
			size = 1
		}
		total := size * int(e.count)

		var raw []byte
		if total <= 4 {
			raw = tiff[pos+8 : pos+8+total]
		} else {
			valueOffset := int(order.Uint32(tiff[pos+8 : pos+12]))
			if valueOffset+total > len(tiff) {
				return nil, fmt.Errorf("IFD value for tag 0x%04X out of range", e.tag)
			}
			raw = tiff[valueOffset : valueOffset+total]
		}
		e.value = toLittleEndian(raw, size, order)
		entries = append(entries, e)
		pos += 12
	}
	return entries, nil
}

// toLittleEndian converts component data to little-endian byte order.
// componentSize 8 means a rational, a pair of 4-byte units.
func toLittleEndian(raw []byte, componentSize int, order binary.ByteOrder) []byte {
	out := make([]byte, len(raw))
	copy(out, raw)
	if order == binary.LittleEndian || componentSize == 1 {
		return out
	}

	unit := componentSize
	if unit == 8 {
		unit = 4
	}
	for start := 0; start+unit <= len(out); start += unit {
		for i, j := start, start+unit-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// encode serializes the tag set as a little-endian TIFF block laid
// out IFD0, Exif IFD, GPS IFD, each followed by its out-of-line
// values. Offsets need two passes: directory sizes first, then the
// value positions.
func (ex *exifData) encode() []byte {
	ifd0 := append([]ifdEntry{}, ex.ifd0...)

	ifdSize := func(entries []ifdEntry) uint32 {
		return 2 + 12*uint32(len(entries)) + 4
	}
	valueSize := func(entries []ifdEntry) uint32 {
		var total uint32
		for _, e := range entries {
			if len(e.value) > 4 {
				total += uint32(len(e.value) + len(e.value)%2)
			}
		}
		return total
	}

	// Pointer entries are placeholders until the sub-IFD offsets are
	// known; count the slots now so IFD0's size is final.
	numPointers := 0
	if len(ex.exif) > 0 {
		numPointers++
	}
	if len(ex.gps) > 0 {
		numPointers++
	}

	ifd0Start := uint32(8)
	ifd0Size := ifdSize(ifd0) + 12*uint32(numPointers)
	exifStart := ifd0Start + ifd0Size + valueSize(ifd0)
	gpsStart := exifStart
	if len(ex.exif) > 0 {
		gpsStart = exifStart + ifdSize(ex.exif) + valueSize(ex.exif)
	}

	pointerValue := func(offset uint32) []byte {
		return binary.LittleEndian.AppendUint32(nil, offset)
	}
	if len(ex.exif) > 0 {
		upsertEntry(&ifd0, ifdEntry{tag: tagExifIFDPointer, typ: typeLong, count: 1, value: pointerValue(exifStart)})
	}
	if len(ex.gps) > 0 {
		upsertEntry(&ifd0, ifdEntry{tag: tagGPSIFDPointer, typ: typeLong, count: 1, value: pointerValue(gpsStart)})
	}

	var buf bytes.Buffer
	buf.Write([]byte{'I', 'I', 42, 0})
	binary.Write(&buf, binary.LittleEndian, ifd0Start)

	encodeIFD(&buf, ifd0, ifd0Start)
	if len(ex.exif) > 0 {
		encodeIFD(&buf, ex.exif, exifStart)
	}
	if len(ex.gps) > 0 {
		encodeIFD(&buf, ex.gps, gpsStart)
	}
	return buf.Bytes()
}

// encodeIFD writes one directory and its out-of-line values at the
// given block offset.
func encodeIFD(buf *bytes.Buffer, entries []ifdEntry, start uint32) {
	binary.Write(buf, binary.LittleEndian, uint16(len(entries)))

	valuePos := start + 2 + 12*uint32(len(entries)) + 4
	var overflow []byte
	for _, e := range entries {
		binary.Write(buf, binary.LittleEndian, e.tag)
		binary.Write(buf, binary.LittleEndian, e.typ)
		binary.Write(buf, binary.LittleEndian, e.count)

		if len(e.value) <= 4 {
			inline := [4]byte{}
			copy(inline[:], e.value)
			buf.Write(inline[:])
		} else {
			binary.Write(buf, binary.LittleEndian, valuePos)
			overflow = append(overflow, e.value...)
			if len(e.value)%2 == 1 {
				overflow = append(overflow, 0)
			}
			valuePos += uint32(len(e.value) + len(e.value)%2)
		}
	}
	// Next-IFD offset: none.
	buf.Write([]byte{0, 0, 0, 0})
	buf.Write(overflow)
}

// rewriteFile atomically replaces path with data via a sibling temp
// file.
func rewriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

