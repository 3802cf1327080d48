package sdfstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/sdfstore/testutil"
)

func benchStore(b *testing.B, options ...Option) *Store {
	b.Helper()

	path := testutil.WriteSDF(b, testutil.GenerateCompounds(1000)...)
	store, err := Open(context.Background(), path, options...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = store.Close() })
	return store
}

func BenchmarkGetByID(b *testing.B) {
	store := benchStore(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := store.GetByID(fmt.Sprintf("CHEBI:%d", 100000+i%1000)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetByIDCached(b *testing.B) {
	store := benchStore(b, WithRecordCache(2048))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := store.GetByID(fmt.Sprintf("CHEBI:%d", 100000+i%1000)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearchByNameExact(b *testing.B) {
	store := benchStore(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := store.SearchByName("compound-500", true); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearchByNameSubstring(b *testing.B) {
	store := benchStore(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := store.SearchByName("compound-50", false); err != nil {
			b.Fatal(err)
		}
	}
}
