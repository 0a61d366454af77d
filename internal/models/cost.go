// Package models defines the domain entities shared by the document
// extractors, the allocator and the report emitters: apportionable cost
// positions, rental contract facts, rent payment records and the computed
// settlement. All amounts are EUR decimals.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CostSource identifies which extraction path produced a cost candidate.
// Candidates for the same cost name coming from different sources are merged
// with source-dependent priority, see CostLedger.Add.
type CostSource int

const (
	// SourceLine is a single text line ending in an amount.
	SourceLine CostSource = iota
	// SourceSplit is a multi-row apportionment block summed from the
	// whole-property and subgroup share lines.
	SourceSplit
	// SourceTable is a detected table row.
	SourceTable
)

func (s CostSource) String() string {
	switch s {
	case SourceLine:
		return "line"
	case SourceSplit:
		return "split"
	case SourceTable:
		return "table"
	default:
		return "unknown"
	}
}

// CostItem is one apportionable cost position with its annual amount.
type CostItem struct {
	Name   string          `csv:"Kostenart" json:"name"`
	Amount decimal.Decimal `csv:"Betrag" json:"amount"`
}

// NormalizeCostKey reduces a cost name to its identity key: lower-cased with
// whitespace, hyphens and parentheses stripped. "Heizkosten-Abrechnung" and
// "heizkosten abrechnung" are the same cost.
func NormalizeCostKey(name string) string {
	key := strings.ToLower(name)
	for _, r := range []string{" ", "\t", "-", "(", ")"} {
		key = strings.ReplaceAll(key, r, "")
	}
	return key
}

type costEntry struct {
	index  int
	source CostSource
}

// CostLedger accumulates cost candidates in first-seen order, merging
// duplicates by normalized name key.
type CostLedger struct {
	items     []CostItem
	entries   map[string]costEntry
	finalized bool
}

// NewCostLedger returns an empty ledger.
func NewCostLedger() *CostLedger {
	return &CostLedger{entries: make(map[string]costEntry)}
}

// Add offers a candidate to the ledger and reports whether it was stored.
// Merge rules for an already-present key:
//   - a SourceSplit candidate always replaces the stored amount
//   - a stored SourceSplit amount is never replaced by other sources
//   - otherwise the larger amount wins
//
// After Finalize the ledger ignores all input.
func (l *CostLedger) Add(item CostItem, source CostSource) bool {
	if l.finalized {
		return false
	}

	key := NormalizeCostKey(item.Name)
	if key == "" {
		return false
	}

	entry, exists := l.entries[key]
	if !exists {
		l.entries[key] = costEntry{index: len(l.items), source: source}
		l.items = append(l.items, item)
		return true
	}

	switch {
	case source == SourceSplit:
		// A split block is the explicit apportionment of this position
		// and overrides whatever a plain line or table row said.
	case entry.source == SourceSplit:
		return false
	case item.Amount.GreaterThan(l.items[entry.index].Amount):
		// Larger wins: the bigger figure is usually the full-year total,
		// the smaller one a partial or per-period row.
	default:
		return false
	}

	l.items[entry.index].Amount = item.Amount
	l.entries[key] = costEntry{index: entry.index, source: source}
	return true
}

// Has reports whether a cost with the same identity key is already stored.
func (l *CostLedger) Has(name string) bool {
	_, ok := l.entries[NormalizeCostKey(name)]
	return ok
}

// Finalize stops the ledger permanently. Subsequent Add calls are ignored.
// Called when the extractor reaches the summary boundary of the document.
func (l *CostLedger) Finalize() {
	l.finalized = true
}

// Finalized reports whether the ledger has been closed.
func (l *CostLedger) Finalized() bool {
	return l.finalized
}

// Items returns the stored cost positions in first-seen order.
func (l *CostLedger) Items() []CostItem {
	out := make([]CostItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of stored positions.
func (l *CostLedger) Len() int {
	return len(l.items)
}

// Total returns the sum of all stored amounts.
func (l *CostLedger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.items {
		total = total.Add(item.Amount)
	}
	return total
}
