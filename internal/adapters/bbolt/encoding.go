// Binary encoding for model profile blobs.
//
// Format v1 (little-endian):
//
//	magic:       [4]byte "LPRF"
//	version:     uint8
//	trainedAt:   int64 (unix nanoseconds, 0 = unset)
//	langCount:   uint16
//	per lang:    len:uint16 + [len]byte
//	lenCount:    uint16
//	per length:  uint16
//	gramCount:   uint32
//	per gram:
//	  gramLen:   uint16
//	  gram:      [gramLen]byte
//	  scores:    [langCount]× float64 bits (uint64)
//
// Grams are written in byte order so equal models encode to equal bytes.
package bbolt

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"fortio.org/safecast"

	"github.com/corey/langprof/internal/ports"
)

const (
	formatVersion = 1
	headerSize    = 4 + 1 + 8
)

var magic = [4]byte{'L', 'P', 'R', 'F'}

// encodeModel encodes a model to the v1 binary format.
func encodeModel(m *ports.LanguageModel) ([]byte, error) {
	langs := m.Languages()
	lengths := m.GramLengths()

	nLangs, err := safecast.Conv[uint16](len(langs))
	if err != nil {
		return nil, fmt.Errorf("too many languages: %w", err)
	}
	nLengths, err := safecast.Conv[uint16](len(lengths))
	if err != nil {
		return nil, fmt.Errorf("too many gram lengths: %w", err)
	}
	nGrams, err := safecast.Conv[uint32](m.Len())
	if err != nil {
		return nil, fmt.Errorf("too many grams: %w", err)
	}

	buf := make([]byte, 0, headerSize+m.Len()*(4+8*len(langs)))
	buf = append(buf, magic[:]...)
	buf = append(buf, formatVersion)
	var ts int64
	if !m.TrainedAt().IsZero() {
		ts = m.TrainedAt().UnixNano()
	}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(ts))

	buf = binary.LittleEndian.AppendUint16(buf, nLangs)
	for _, l := range langs {
		if buf, err = appendString(buf, l); err != nil {
			return nil, fmt.Errorf("language %q: %w", l, err)
		}
	}

	buf = binary.LittleEndian.AppendUint16(buf, nLengths)
	for _, n := range lengths {
		v, err := safecast.Conv[uint16](n)
		if err != nil {
			return nil, fmt.Errorf("gram length %d: %w", n, err)
		}
		buf = binary.LittleEndian.AppendUint16(buf, v)
	}

	buf = binary.LittleEndian.AppendUint32(buf, nGrams)
	m.Range(func(g string, scores []float64) bool {
		if buf, err = appendString(buf, g); err != nil {
			err = fmt.Errorf("gram %q: %w", g, err)
			return false
		}
		if len(scores) != len(langs) {
			err = fmt.Errorf("gram %q: %d scores for %d languages", g, len(scores), len(langs))
			return false
		}
		for _, s := range scores {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(s))
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func appendString(buf []byte, s string) ([]byte, error) {
	n, err := safecast.Conv[uint16](len(s))
	if err != nil {
		return buf, fmt.Errorf("too long: %d bytes", len(s))
	}
	buf = binary.LittleEndian.AppendUint16(buf, n)
	return append(buf, s...), nil
}

// decoder reads the v1 format. Every read is bounds-checked to avoid panics
// on corrupt data; the first failure sticks in err.
type decoder struct {
	data []byte
	off  int
	err  error
}

func (d *decoder) need(n int, what string) bool {
	if d.err != nil {
		return false
	}
	if d.off+n > len(d.data) {
		d.err = fmt.Errorf("truncated at %s (offset %d, need %d)", what, d.off, n)
		return false
	}
	return true
}

func (d *decoder) u16(what string) int {
	if !d.need(2, what) {
		return 0
	}
	v := binary.LittleEndian.Uint16(d.data[d.off:])
	d.off += 2
	return int(v)
}

func (d *decoder) u32(what string) int {
	if !d.need(4, what) {
		return 0
	}
	v := binary.LittleEndian.Uint32(d.data[d.off:])
	d.off += 4
	return int(v)
}

func (d *decoder) u64(what string) uint64 {
	if !d.need(8, what) {
		return 0
	}
	v := binary.LittleEndian.Uint64(d.data[d.off:])
	d.off += 8
	return v
}

func (d *decoder) str(what string) string {
	n := d.u16(what + " length")
	if !d.need(n, what) {
		return ""
	}
	s := string(d.data[d.off : d.off+n])
	d.off += n
	return s
}

// decodeModel decodes the v1 binary format.
func decodeModel(data []byte) (*ports.LanguageModel, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("model blob too short: %d bytes", len(data))
	}
	if [4]byte(data[:4]) != magic {
		return nil, fmt.Errorf("bad magic %q", data[:4])
	}
	if data[4] != formatVersion {
		return nil, fmt.Errorf("unsupported format version %d", data[4])
	}
	d := &decoder{data: data, off: 5}

	var trainedAt time.Time
	if ts := int64(d.u64("trained_at")); ts != 0 {
		trainedAt = time.Unix(0, ts).UTC()
	}

	langs := make([]string, d.u16("language count"))
	for i := range langs {
		langs[i] = d.str("language")
	}
	lengths := make([]int, d.u16("gram length count"))
	for i := range lengths {
		lengths[i] = d.u16("gram length")
	}

	nGrams := d.u32("gram count")
	if d.err != nil {
		return nil, d.err
	}
	// Each gram needs at least its length prefix; reject absurd counts early.
	if nGrams*2 > len(data)-d.off {
		return nil, fmt.Errorf("gram count %d exceeds blob size", nGrams)
	}
	profile := make(map[string][]float64, nGrams)
	for range nGrams {
		g := d.str("gram")
		scores := make([]float64, len(langs))
		for j := range scores {
			scores[j] = math.Float64frombits(d.u64("score"))
		}
		if d.err != nil {
			return nil, d.err
		}
		if _, dup := profile[g]; dup {
			return nil, fmt.Errorf("gram %q listed twice", g)
		}
		profile[g] = scores
	}
	if d.off != len(data) {
		return nil, fmt.Errorf("%d trailing bytes", len(data)-d.off)
	}
	return ports.NewLanguageModel(lengths, langs, profile, trainedAt), nil
}
