package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SortKey is the wire-level "field:direction" token selecting list
// order. The vocabulary is fixed; anything else is a caller bug and is
// rejected at parse time rather than silently defaulted.
type SortKey string

const (
	SortDateDesc   SortKey = "date:desc"
	SortDateAsc    SortKey = "date:asc"
	SortNameAsc    SortKey = "name:asc"
	SortNameDesc   SortKey = "name:desc"
	SortAmountDesc SortKey = "amount:desc"
	SortAmountAsc  SortKey = "amount:asc"
)

// DefaultSortKey orders newest first.
const DefaultSortKey = SortDateDesc

var sortKeys = map[SortKey]bool{
	SortDateDesc:   true,
	SortDateAsc:    true,
	SortNameAsc:    true,
	SortNameDesc:   true,
	SortAmountDesc: true,
	SortAmountAsc:  true,
}

// ParseSortKey validates a raw sort token. The empty string maps to the
// default; any other unknown token is an error.
func ParseSortKey(raw string) (SortKey, error) {
	if raw == "" {
		return DefaultSortKey, nil
	}
	key := SortKey(raw)
	if !sortKeys[key] {
		return "", fmt.Errorf("unknown sort key: %q", raw)
	}
	return key, nil
}

// Sortable is anything a SortKey can order: transactions and recurring
// bills both qualify.
type Sortable interface {
	SortDate() time.Time
	SortName() string
	SortAmount() Money
}

func (t Transaction) SortDate() time.Time   { return t.Date }
func (t Transaction) SortName() string      { return t.Counterparty }
func (t Transaction) SortAmount() Money     { return t.Amount }
func (b RecurringBill) SortDate() time.Time { return b.Date }
func (b RecurringBill) SortName() string    { return b.Counterparty }
func (b RecurringBill) SortAmount() Money   { return b.Amount }

// Compare returns -1 when a orders before b under key, otherwise 1.
// It never returns 0: distinct-looking elements always get a definite
// order, so ties fall back to whatever order the caller's sort gives
// them. Amounts compare by magnitude, not sign, because bills and
// budgets care how big a movement is rather than which direction it
// goes.
func Compare(a, b Sortable, key SortKey) int {
	switch key {
	case SortDateDesc:
		if a.SortDate().After(b.SortDate()) {
			return -1
		}
		return 1
	case SortDateAsc:
		if a.SortDate().Before(b.SortDate()) {
			return -1
		}
		return 1
	case SortNameAsc:
		if compareNames(a.SortName(), b.SortName()) < 0 {
			return -1
		}
		return 1
	case SortNameDesc:
		if compareNames(b.SortName(), a.SortName()) < 0 {
			return -1
		}
		return 1
	case SortAmountDesc:
		if a.SortAmount().Abs() > b.SortAmount().Abs() {
			return -1
		}
		return 1
	case SortAmountAsc:
		if a.SortAmount().Abs() < b.SortAmount().Abs() {
			return -1
		}
		return 1
	default:
		panic(fmt.Sprintf("unvalidated sort key: %q", key))
	}
}

// compareNames orders names case-insensitively, falling back to the
// raw bytes so equal-folded names still order deterministically.
func compareNames(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return strings.Compare(la, lb)
	}
	return strings.Compare(a, b)
}

// SortSlice orders items in place by key. The underlying sort is
// stable, so repeated calls over identical input are deterministic.
func SortSlice[T Sortable](items []T, key SortKey) {
	sort.SliceStable(items, func(i, j int) bool {
		return Compare(items[i], items[j], key) < 0
	})
}
