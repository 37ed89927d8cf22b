package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sort"
)

// psHeader prefixes the APP13 payload of a Photoshop resource block.
var psHeader = []byte("Photoshop 3.0\x00")

// irbSignature introduces each image resource inside the block.
var irbSignature = []byte("8BIM")

// iptcResourceID is the IPTC-NAA image resource.
const iptcResourceID = 0x0404

// Fixed IPTC values identifying where the photos came from and what
// wrote the tags.
const (
	iptcSourceValue      = "BeReal app"
	iptcProgramValue     = "github/visual-bereal-processor"
	iptcCharsetUTF8      = "\x1b%G"
	iptcRecordVersionRaw = "\x00\x02"
)

// dataset is one IPTC record:dataset value.
type dataset struct {
	record byte
	number byte
	value  []byte
}

// Managed datasets.
var (
	dsCharset       = dataset{record: 1, number: 90}
	dsRecordVersion = dataset{record: 2, number: 0}
	dsProgram       = dataset{record: 2, number: 65}
	dsSource        = dataset{record: 2, number: 115}
	dsCaption       = dataset{record: 2, number: 120}
)

// writeIPTC rewrites the JPEG at path with the properties embedded in
// its IPTC (APP13) segment, keeping the previous file content as a
// "~" backup. Datasets and Photoshop resources not managed here
// survive.
func writeIPTC(path string, p Properties) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	segs, scan, err := splitJPEG(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var resources []resource
	if i := findSegment(segs, markerAPP13, psHeader); i >= 0 {
		if parsed, err := parseResources(segs[i].data[len(psHeader):]); err == nil {
			resources = parsed
		}
	}

	var sets []dataset
	if i := findResource(resources, iptcResourceID); i >= 0 {
		sets = parseDatasets(resources[i].data)
	}
	sets = applyDatasets(sets, p)

	resources = upsertResource(resources, iptcResourceID, encodeDatasets(sets))
	payload := append(append([]byte{}, psHeader...), encodeResources(resources)...)
	segs = upsertSegment(segs, markerAPP13, psHeader, payload)

	return rewriteWithBackup(path, joinJPEG(segs, scan))
}

// applyDatasets merges the managed datasets into an existing set.
func applyDatasets(sets []dataset, p Properties) []dataset {
	upsert := func(ds dataset, value string) {
		ds.value = []byte(value)
		for i := range sets {
			if sets[i].record == ds.record && sets[i].number == ds.number {
				sets[i] = ds
				return
			}
		}
		sets = append(sets, ds)
	}

	upsert(dsCharset, iptcCharsetUTF8)
	upsert(dsRecordVersion, iptcRecordVersionRaw)
	upsert(dsProgram, iptcProgramValue)
	upsert(dsSource, iptcSourceValue)
	if p.Caption != "" {
		upsert(dsCaption, p.Caption)
	}

	sort.SliceStable(sets, func(i, j int) bool {
		if sets[i].record != sets[j].record {
			return sets[i].record < sets[j].record
		}
		return sets[i].number < sets[j].number
	})
	return sets
}

// parseDatasets decodes the 0x1C-tagged dataset stream of an IPTC
// resource. Unparsable trailing bytes are dropped.
func parseDatasets(data []byte) []dataset {
	var sets []dataset
	pos := 0
	for pos+5 <= len(data) {
		if data[pos] != 0x1C {
			break
		}
		length := int(binary.BigEndian.Uint16(data[pos+3 : pos+5]))
		if pos+5+length > len(data) {
			break
		}
		sets = append(sets, dataset{
			record: data[pos+1],
			number: data[pos+2],
			value:  data[pos+5 : pos+5+length],
		})
		pos += 5 + length
	}
	return sets
}

// encodeDatasets serializes datasets into the IPTC wire form.
func encodeDatasets(sets []dataset) []byte {
	var buf bytes.Buffer
	for _, ds := range sets {
		buf.WriteByte(0x1C)
		buf.WriteByte(ds.record)
		buf.WriteByte(ds.number)
		var length [2]byte
		binary.BigEndian.PutUint16(length[:], uint16(len(ds.value)))
		buf.Write(length[:])
		buf.Write(ds.value)
	}
	return buf.Bytes()
}

// resource is one Photoshop image resource.
type resource struct {
	id   uint16
	name []byte // raw Pascal name, padded to even length
	data []byte
}

// parseResources decodes the 8BIM resource list of an APP13 payload.
func parseResources(data []byte) ([]resource, error) {
	var resources []resource
	pos := 0
	for pos < len(data) {
		if pos+4 > len(data) || !bytes.Equal(data[pos:pos+4], irbSignature) {
			return nil, fmt.Errorf("bad resource signature at offset %d", pos)
		}
		pos += 4
		if pos+2 > len(data) {
			return nil, fmt.Errorf("truncated resource id")
		}
		id := binary.BigEndian.Uint16(data[pos : pos+2])
		pos += 2

		if pos >= len(data) {
			return nil, fmt.Errorf("truncated resource name")
		}
		nameLen := int(data[pos])
		namePadded := 1 + nameLen
		if namePadded%2 == 1 {
			namePadded++
		}
		if pos+namePadded > len(data) {
			return nil, fmt.Errorf("truncated resource name")
		}
		name := data[pos : pos+namePadded]
		pos += namePadded

		if pos+4 > len(data) {
			return nil, fmt.Errorf("truncated resource size")
		}
		size := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+size > len(data) {
			return nil, fmt.Errorf("truncated resource data")
		}
		resources = append(resources, resource{
			id:   id,
			name: append([]byte{}, name...),
			data: append([]byte{}, data[pos:pos+size]...),
		})
		pos += size
		if size%2 == 1 {
			pos++
		}
	}
	return resources, nil
}

// encodeResources serializes the 8BIM resource list.
func encodeResources(resources []resource) []byte {
	var buf bytes.Buffer
	for _, r := range resources {
		buf.Write(irbSignature)
		var id [2]byte
		binary.BigEndian.PutUint16(id[:], r.id)
		buf.Write(id[:])
		if len(r.name) == 0 {
			buf.Write([]byte{0, 0})
		} else {
			buf.Write(r.name)
		}
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(r.data)))
		buf.Write(size[:])
		buf.Write(r.data)
		if len(r.data)%2 == 1 {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}

func findResource(resources []resource, id uint16) int {
	for i, r := range resources {
		if r.id == id {
			return i
		}
	}
	return -1
}

func upsertResource(resources []resource, id uint16, data []byte) []resource {
	if i := findResource(resources, id); i >= 0 {
		resources[i].data = data
		return resources
	}
	return append(resources, resource{id: id, data: data})
}

// rewriteWithBackup moves the previous content of path aside as
// path+"~" and writes the new content in its place. The backup stays
// on disk for the cleanup step to collect.
func rewriteWithBackup(path string, updated []byte) error {
	backup := path + "~"
	os.Remove(backup)
	if err := os.Rename(path, backup); err != nil {
		return err
	}
	if err := os.WriteFile(path, updated, 0644); err != nil {
		os.Rename(backup, path)
		return err
	}
	return nil
}
