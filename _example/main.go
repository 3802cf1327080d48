package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hupe1980/sdfstore"
	"github.com/hupe1980/sdfstore/testutil"
)

func main() {
	size := 10000
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "sdfstore-demo")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "compounds.sdf")
	contents := testutil.Render(testutil.GenerateCompounds(size)...)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		log.Fatal(err)
	}

	fmt.Println("--- Build ---")
	fmt.Println("Records:", size)
	fmt.Println("File size:", len(contents), "bytes")

	start := time.Now()

	store, err := sdfstore.Open(ctx, path,
		sdfstore.WithRecordCache(1024),
		sdfstore.WithProgress(sdfstore.ProgressFunc(func(processed, total int64) {
			fmt.Printf("\rindexed %d/%d bytes", processed, total)
		})),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nSeconds: %.2f\n\n", time.Since(start).Seconds())

	stats := store.Stats()
	fmt.Println("--- Stats ---")
	fmt.Println("Total records:", stats.TotalRecords)
	fmt.Println("Indexed names:", stats.IndexedNames)
	fmt.Println("Unique formulas:", stats.UniqueFormulas)
	fmt.Println()

	fmt.Println("--- Queries ---")

	start = time.Now()
	rec, err := store.GetByID("CHEBI:105000")
	if err != nil {
		log.Fatal(err)
	}
	name, _ := rec.Field("ChEBI NAME")
	fmt.Printf("GetByID: %s (%v)\n", name, time.Since(start))

	start = time.Now()
	hits, err := store.SearchByName("compound-42", true)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Exact name search: %d hit(s) (%v)\n", len(hits), time.Since(start))

	start = time.Now()
	hits, err = store.SearchByName("compound-42", false)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Substring name search: %d hit(s) (%v)\n", len(hits), time.Since(start))

	if err := store.Close(); err != nil {
		log.Fatal(err)
	}

	fmt.Println()
	fmt.Println("--- Reopen from cache ---")

	start = time.Now()
	store, err = sdfstore.Open(ctx, path)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	fmt.Printf("Seconds: %.4f\n", time.Since(start).Seconds())
	fmt.Println("Cache:", store.CachePath())
}
