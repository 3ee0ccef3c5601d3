// cmd/memreport measures the live heap footprint of synthetic indexes and
// shows how much the interning store saves over keeping the labels as a
// plain []any column.
//
// Labels repeat: -rows values cycle through -distinct distinct strings,
// the shape under which interning pays off. A second integer level of the
// same cardinality turns the single index into a two-level one.
//
// Usage: go run cmd/memreport/main.go -rows 100000 -distinct 1000
package main

import (
	"flag"
	"fmt"
	"log"

	"tabula/config"
	"tabula/index"
	"tabula/memsize"
	"tabula/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print the build version and exit")
	cfg := config.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if cfg.Rows <= 0 || cfg.Distinct <= 0 {
		log.Fatal("rows and distinct must be positive")
	}

	fmt.Println("tabula memory report")
	fmt.Println("====================")
	fmt.Printf("\n%d rows, %d distinct labels per level\n\n", cfg.Rows, cfg.Distinct)

	labels := make([]any, cfg.Rows)
	ids := make([]any, cfg.Rows)
	for i := range labels {
		labels[i] = fmt.Sprintf("label-%04d", i%cfg.Distinct)
		ids[i] = int64(i % cfg.Distinct)
	}

	fmt.Printf("%-16s %12s %12s %12s %12s\n", "Index", "Store", "Columns", "Cache", "Total")
	fmt.Println("---------------- ------------ ------------ ------------ ------------")

	var plain memsize.Breakdown
	for _, cached := range []bool{false, true} {
		ix, err := index.New(labels, index.Options{Cached: cached})
		if err != nil {
			log.Fatalf("build single index: %v", err)
		}
		b := memsize.Report(ix)
		if !cached {
			plain = b
		}
		printRow(rowName("single", cached), b)
	}
	for _, cached := range []bool{false, true} {
		mi, err := index.NewMulti([][]any{labels, ids}, index.MultiOptions{
			Names:  []string{"label", "id"},
			Cached: cached,
		})
		if err != nil {
			log.Fatalf("build multi index: %v", err)
		}
		printRow(rowName("multi(2)", cached), memsize.ReportMulti(mi))
	}
	fmt.Println("---------------- ------------ ------------ ------------ ------------")

	// Every row's label is a fresh allocation here, as it would be coming
	// off a wire decoder, so the plain slice pays for each repeat.
	naive := memsize.Of(labels)
	interned := plain.Store + plain.Columns
	fmt.Println()
	fmt.Printf("%-24s %12s\n", "labels as plain []any:", fmtBytes(naive))
	fmt.Printf("%-24s %12s\n", "interned store + keys:", fmtBytes(interned))
	if saved := naive - interned; saved > 0 {
		fmt.Printf("%-24s %12s\n", "saved:", fmtBytes(saved))
	}
}

func rowName(base string, cached bool) string {
	if cached {
		return base + "+cache"
	}
	return base
}

func printRow(name string, b memsize.Breakdown) {
	fmt.Printf("%-16s %12s %12s %12s %12s\n",
		name, fmtBytes(b.Store), fmtBytes(b.Columns), fmtBytes(b.Cache), fmtBytes(b.Total))
}

func fmtBytes(b int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
