package index

import (
	"context"
	"strings"
	"testing"

	"github.com/hupe1980/sdfstore/testutil"
)

func BenchmarkBuild(b *testing.B) {
	contents := testutil.Render(testutil.GenerateCompounds(1000)...)
	schema := DefaultSchema()
	b.SetBytes(int64(len(contents)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _, err := Build(context.Background(), strings.NewReader(contents), int64(len(contents)), schema, NopProgress{})
		if err != nil {
			b.Fatal(err)
		}
	}
}
