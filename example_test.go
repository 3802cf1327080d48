package sdfstore_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hupe1980/sdfstore"
	"github.com/hupe1980/sdfstore/testutil"
)

// Example_getByID demonstrates opening a store and resolving one record.
func Example_getByID() {
	dir, err := os.MkdirTemp("", "sdfstore")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "compounds.sdf")
	if err := os.WriteFile(path, []byte(testutil.Render(testutil.Water, testutil.HeavyWater)), 0o600); err != nil {
		log.Fatal(err)
	}

	store, err := sdfstore.Open(context.Background(), path)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// The schema prefix is optional; "15377" addresses the same record.
	rec, err := store.GetByID("CHEBI:15377")
	if err != nil {
		log.Fatal(err)
	}

	name, _ := rec.Field("ChEBI NAME")
	formula, _ := rec.Field("FORMULA")
	fmt.Println(name, formula)
	// Output: water H2O
}

// Example_search demonstrates exact and substring name searches.
func Example_search() {
	dir, err := os.MkdirTemp("", "sdfstore")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "compounds.sdf")
	if err := os.WriteFile(path, []byte(testutil.Render(testutil.Water, testutil.HeavyWater)), 0o600); err != nil {
		log.Fatal(err)
	}

	store, err := sdfstore.Open(context.Background(), path)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	exact, err := store.SearchByName("water", true)
	if err != nil {
		log.Fatal(err)
	}
	partial, err := store.SearchByName("water", false)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(len(exact), len(partial))
	// Output: 1 2
}

// Example_exportTable demonstrates projecting records into a table.
func Example_exportTable() {
	dir, err := os.MkdirTemp("", "sdfstore")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "compounds.sdf")
	if err := os.WriteFile(path, []byte(testutil.Render(testutil.Water, testutil.HeavyWater)), 0o600); err != nil {
		log.Fatal(err)
	}

	store, err := sdfstore.Open(context.Background(), path)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	table, err := store.ExportTable(context.Background(), nil, []string{"ChEBI ID", "FORMULA"})
	if err != nil {
		log.Fatal(err)
	}

	for _, row := range table.Rows {
		fmt.Println(row["ChEBI ID"], row["FORMULA"])
	}
	// Output:
	// CHEBI:15377 H2O
	// CHEBI:41981 D2O
}
