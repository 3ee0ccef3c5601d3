package index

import (
	"fmt"
	"strings"

	"tabula/intern"
)

const (
	statusOk          = "Ok"
	statusCompromised = "Compromised"
)

// IntegrityReport holds the outcome of the three structural audits, each
// reported independently as Ok or Compromised. It is a report, not a
// gate: a compromised index keeps operating.
type IntegrityReport struct {
	LevelShape     string
	KeyReferences  string
	StoreBijection string
	Full           bool
}

// OK reports whether every audit passed.
func (r IntegrityReport) OK() bool {
	return r.LevelShape == statusOk &&
		r.KeyReferences == statusOk &&
		r.StoreBijection == statusOk
}

// String renders one status line per audit. A shallow report carries an
// advisory line pointing at the full audit.
func (r IntegrityReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Level Shape: %s\n", r.LevelShape)
	fmt.Fprintf(&b, "Key References: %s\n", r.KeyReferences)
	fmt.Fprintf(&b, "Store Bijection: %s", r.StoreBijection)
	if !r.Full {
		b.WriteString("\nFor a two-directional store audit, run VerifyIntegrity(true).")
	}
	return b.String()
}

// VerifyIntegrity audits the index structure:
//
//  1. every level column holds the same number of rows;
//  2. every key referenced by a column is live in the store's forward
//     mapping and reachable from the reverse mapping, and no two forward
//     keys hold the same value;
//  3. the store's two directions are mutual inverses, walked forward
//     only by default and in both directions when full is set.
func (m *MultiIndex) VerifyIntegrity(full bool) IntegrityReport {
	report := IntegrityReport{
		LevelShape:     statusOk,
		KeyReferences:  statusOk,
		StoreBijection: statusOk,
		Full:           full,
	}

	want := len(m.levels[0])
	for _, col := range m.levels {
		if len(col) != want {
			report.LevelShape = statusCompromised
			break
		}
	}

	reverse := make(map[intern.Key]struct{})
	for _, k := range m.store.ReverseKeys() {
		reverse[k] = struct{}{}
	}
refs:
	for _, col := range m.levels {
		for _, k := range col {
			if !m.store.HasKey(k) {
				report.KeyReferences = statusCompromised
				break refs
			}
			if _, ok := reverse[k]; !ok {
				report.KeyReferences = statusCompromised
				break refs
			}
		}
	}
	if report.KeyReferences == statusOk && !m.store.ValuesUnique() {
		report.KeyReferences = statusCompromised
	}

	if !m.store.Bijective(full) {
		report.StoreBijection = statusCompromised
	}

	return report
}
