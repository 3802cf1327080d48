package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/sdfstore/sdf"
)

// ProgressSink receives periodic byte-progress notifications during a build.
// A sink is never required for correctness; pass NopProgress to discard them.
type ProgressSink interface {
	// Report is called with the bytes consumed so far and the total source
	// size. bytesTotal is 0 when the source size is unknown.
	Report(bytesProcessed, bytesTotal int64)
}

// NopProgress is a ProgressSink that discards all notifications.
type NopProgress struct{}

func (NopProgress) Report(int64, int64) {}

// progressInterval caps the notification cadence so sinks are not hammered
// once per record on multi-hundred-thousand-record files.
const progressInterval = 200 * time.Millisecond

// BuildInfo summarizes a completed build pass.
type BuildInfo struct {
	// Records is the number of records parsed to completion.
	Records int
	// Indexed is the number of records that carried the identifier field.
	Indexed int
	// Malformed is the number of records skipped as unparseable.
	Malformed int
	// Bytes is the number of source bytes consumed.
	Bytes int64
}

// Build drives one linear pass over r, producing the finished Index.
//
// Records without the schema's identifier field are parsed but contribute no
// entries. Malformed records are counted and skipped; they never abort the
// pass. Any other read error, or a cancelled context, aborts the build with
// no partial Index exposed.
func Build(ctx context.Context, r io.Reader, size int64, schema Schema, sink ProgressSink) (*Index, *BuildInfo, error) {
	if sink == nil {
		sink = NopProgress{}
	}

	ix := New()
	info := &BuildInfo{}
	sc := sdf.NewScanner(r)
	limiter := rate.NewLimiter(rate.Every(progressInterval), 1)

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("index: build cancelled: %w", err)
		}

		rec, err := sc.Next()
		if err == io.EOF {
			break
		}
		var malformed *sdf.MalformedRecordError
		if errors.As(err, &malformed) {
			info.Malformed++
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("index: build failed: %w", err)
		}

		info.Records++
		if ix.Add(rec, schema) {
			info.Indexed++
		}

		if limiter.Allow() {
			sink.Report(sc.Offset(), size)
		}
	}

	info.Bytes = sc.Offset()
	sink.Report(info.Bytes, size)

	return ix, info, nil
}
