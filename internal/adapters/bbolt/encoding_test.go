package bbolt

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/langprof/internal/ports"
)

func TestEncodeModel_Deterministic(t *testing.T) {
	a, err := encodeModel(makeTestModel())
	require.NoError(t, err)
	b, err := encodeModel(makeTestModel())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, []byte("LPRF"), a[:4])
}

func TestDecodeModel_Roundtrip(t *testing.T) {
	m := makeTestModel()
	data, err := encodeModel(m)
	require.NoError(t, err)

	got, err := decodeModel(data)
	require.NoError(t, err)
	assert.True(t, m.Equal(got))
}

func TestDecodeModel_ZeroTimeAndEmptyProfile(t *testing.T) {
	m := ports.NewLanguageModel([]int{2}, []string{"en"}, nil, time.Time{})
	data, err := encodeModel(m)
	require.NoError(t, err)

	got, err := decodeModel(data)
	require.NoError(t, err)
	assert.Zero(t, got.Len())
	assert.True(t, got.TrainedAt().IsZero())
}

func TestDecodeModel_Corrupt(t *testing.T) {
	good, err := encodeModel(makeTestModel())
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("XXXX"), good[4:]...)},
		{"bad version", append(append([]byte("LPRF"), 9), good[5:]...)},
		{"truncated", good[:len(good)-3]},
		{"trailing", append(append([]byte(nil), good...), 0)},
		{"duplicate gram", duplicateGramBlob(t)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := decodeModel(tt.data)
				assert.Error(t, err)
			})
		})
	}
}

// duplicateGramBlob encodes a one-gram model and repeats its gram entry.
func duplicateGramBlob(t *testing.T) []byte {
	t.Helper()
	m := ports.NewLanguageModel([]int{1}, []string{"en", "fr"},
		map[string][]float64{"a": {1, 2}}, time.Time{})
	data, err := encodeModel(m)
	require.NoError(t, err)

	entry := 2 + len("a") + 8*2
	countAt := len(data) - entry - 4
	require.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[countAt:]))

	out := append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(out[countAt:], 2)
	return append(out, data[len(data)-entry:]...)
}

func TestDecodeModel_DuplicateGram(t *testing.T) {
	_, err := decodeModel(duplicateGramBlob(t))
	assert.ErrorContains(t, err, `gram "a" listed twice`)
}

func TestEncodeModel_RejectsOversizedGram(t *testing.T) {
	big := string(make([]byte, 70000))
	m := ports.NewLanguageModel([]int{70000}, []string{"en"}, map[string][]float64{big: {0}}, time.Time{})
	_, err := encodeModel(m)
	assert.Error(t, err)
}
