package sdf

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderReadAt(t *testing.T) {
	data := waterRecord + heavyWaterRecord
	r := NewReader(strings.NewReader(data), int64(len(data)))

	rec, err := r.ReadAt(0)
	require.NoError(t, err)
	assert.Equal(t, "CHEBI:15377", rec.Fields["ChEBI ID"])
	assert.Equal(t, int64(0), rec.Offset)

	rec, err = r.ReadAt(int64(len(waterRecord)))
	require.NoError(t, err)
	assert.Equal(t, "CHEBI:41981", rec.Fields["ChEBI ID"])
	assert.Equal(t, int64(len(waterRecord)), rec.Offset)
}

func TestReaderInvalidOffset(t *testing.T) {
	data := waterRecord
	r := NewReader(strings.NewReader(data), int64(len(data)))

	_, err := r.ReadAt(-1)
	assert.ErrorIs(t, err, ErrInvalidOffset)

	_, err = r.ReadAt(int64(len(data)))
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestReaderConcurrent(t *testing.T) {
	data := waterRecord + heavyWaterRecord
	r := NewReader(strings.NewReader(data), int64(len(data)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		offset := int64(0)
		want := "CHEBI:15377"
		if i%2 == 1 {
			offset = int64(len(waterRecord))
			want = "CHEBI:41981"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := r.ReadAt(offset)
			assert.NoError(t, err)
			assert.Equal(t, want, rec.Fields["ChEBI ID"])
		}()
	}
	wg.Wait()
}
