// cmd/pgframe loads the result of a PostgreSQL query into a label-indexed
// frame and reports what came back: the frame itself, an integrity audit
// of a multi-level row index, and lookup counters from a probe over every
// distinct label.
//
// Usage:
//
//	go run cmd/pgframe/main.go -dsn "host=... user=..." \
//	    -query "SELECT region, name, qty FROM fruit" \
//	    -index-columns region,name
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/viant/gmetric"

	"tabula/config"
	"tabula/frame"
	"tabula/index"
	"tabula/scalar"
	"tabula/sqlload"
	"tabula/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print the build version and exit")
	cfg := config.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if cfg.Query == "" {
		log.Fatal("no query given: set -query or TABULA_QUERY")
	}

	pgCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		log.Fatalf("parse dsn: %v", err)
	}
	pgCfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	ctx := context.Background()
	conn, err := pgx.ConnectConfig(ctx, pgCfg)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer conn.Close(ctx)

	metrics := index.NewMetrics(gmetric.New(), "pgframe")

	started := time.Now()
	rows, err := conn.Query(ctx, cfg.Query)
	if err != nil {
		log.Fatalf("query: %v", err)
	}
	df, err := sqlload.FromPGX(rows, sqlload.Options{
		IndexColumns: cfg.IndexColumnList(),
		Cached:       cfg.Cached,
		Metrics:      metrics,
	})
	rows.Close()
	if err != nil {
		log.Fatalf("load frame: %v", err)
	}
	loaded := time.Since(started)

	fmt.Println(df)
	fmt.Println()
	nRows, nCols := df.Shape()
	fmt.Printf("loaded %d rows x %d columns in %s\n", nRows, nCols, loaded.Round(time.Millisecond))

	if mi := df.Multi(); mi != nil {
		fmt.Println()
		fmt.Println(mi.VerifyIntegrity(cfg.FullAudit))
	}

	if len(cfg.IndexColumnList()) > 0 {
		if lo, hi, ok := labelRange(df); ok {
			fmt.Printf("\nlabels span %s to %s\n", scalar.Format(lo), scalar.Format(hi))
		}
		covered := probe(df)
		snap := metrics.Snapshot()
		fmt.Printf("\nprobe covered %d of %d rows\n", covered, nRows)
		fmt.Printf("%-14s %8d\n", "lookups", snap.Lookups)
		fmt.Printf("%-14s %8d\n", "cache hits", snap.CacheHits)
		fmt.Printf("%-14s %8d\n", "cache misses", snap.CacheMisses)
	}
}

// labelRange returns the smallest and largest distinct row label under
// the total scalar order, false on an empty frame.
func labelRange(df *frame.DataFrame) (lo, hi any, ok bool) {
	var labels []any
	if mi := df.Multi(); mi != nil {
		for _, row := range mi.Unique() {
			labels = append(labels, row)
		}
	} else {
		labels = df.Index().Unique()
	}
	if len(labels) == 0 {
		return nil, nil, false
	}
	lo, hi = labels[0], labels[0]
	for _, label := range labels[1:] {
		if scalar.Compare(label, lo) < 0 {
			lo = label
		}
		if scalar.Compare(label, hi) > 0 {
			hi = label
		}
	}
	return lo, hi, true
}

// probe locates every distinct label of the row index once and returns
// the number of row positions those lookups covered. A full probe covers
// every row, so the return value doubles as a sanity check on the index.
func probe(df *frame.DataFrame) int {
	covered := 0
	if mi := df.Multi(); mi != nil {
		for _, row := range mi.Unique() {
			if positions, err := mi.Locate(row); err == nil {
				covered += len(positions)
			}
		}
		return covered
	}
	ix := df.Index()
	for _, label := range ix.Unique() {
		if positions, err := ix.Locate(label); err == nil {
			covered += len(positions)
		}
	}
	return covered
}
