package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DSN          string
	Query        string
	IndexColumns string
	Cached       bool
	FullAudit    bool
	Rows         int
	Distinct     int
}

func Parse() *Config {
	cfg := &Config{}
	flag.StringVar(&cfg.DSN, "dsn", envStr("TABULA_DSN", "host=127.0.0.1 port=5432 user=postgres sslmode=disable"), "PostgreSQL connection string")
	flag.StringVar(&cfg.Query, "query", envStr("TABULA_QUERY", ""), "query whose result is loaded into a frame")
	flag.StringVar(&cfg.IndexColumns, "index-columns", envStr("TABULA_INDEX_COLUMNS", ""), "comma-separated result columns promoted to the row index")
	flag.BoolVar(&cfg.Cached, "cached", envBool("TABULA_CACHED", true), "build position caches on created indexes")
	flag.BoolVar(&cfg.FullAudit, "full-audit", envBool("TABULA_FULL_AUDIT", false), "walk the interning store in both directions when auditing")
	flag.IntVar(&cfg.Rows, "rows", envInt("TABULA_ROWS", 100000), "synthetic row count for memory reports")
	flag.IntVar(&cfg.Distinct, "distinct", envInt("TABULA_DISTINCT", 1000), "distinct label count for memory reports")
	flag.Parse()
	return cfg
}

// IndexColumnList splits the comma-separated index column names, trimming
// whitespace and dropping empty entries.
func (c *Config) IndexColumnList() []string {
	var out []string
	for _, part := range strings.Split(c.IndexColumns, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
