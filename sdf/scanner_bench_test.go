package sdf

import (
	"strings"
	"testing"

	"github.com/hupe1980/sdfstore/testutil"
)

func BenchmarkScanner(b *testing.B) {
	contents := testutil.Render(testutil.GenerateCompounds(1000)...)
	b.SetBytes(int64(len(contents)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sc := NewScanner(strings.NewReader(contents))
		for {
			if _, err := sc.Next(); err != nil {
				break
			}
		}
	}
}

func BenchmarkReaderReadAt(b *testing.B) {
	first := testutil.Water.SDF()
	contents := first + testutil.HeavyWater.SDF()
	r := NewReader(strings.NewReader(contents), int64(len(contents)))
	offset := int64(len(first))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.ReadAt(offset); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCachingReaderHit(b *testing.B) {
	contents := testutil.Water.SDF()
	r := NewCachingReader(NewReader(strings.NewReader(contents), int64(len(contents))), 16)
	if _, err := r.ReadAt(0); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.ReadAt(0); err != nil {
			b.Fatal(err)
		}
	}
}
