// Package summary derives forward-looking payoff totals from a parsed
// transaction sequence.
package summary

import (
	"sort"

	"github.com/ratetrack/ratetrack/internal/models"
)

// Summary holds the aggregate view over one statement.
type Summary struct {
	// Buckets maps months-remaining (installmentCount - installmentIndex) to
	// the summed monthly amounts of plans finishing in that many months.
	Buckets map[int]float64 `json:"buckets"`
	// NonInstallmentTotal is the summed amount of all regular transactions.
	NonInstallmentTotal float64 `json:"nonInstallmentTotal"`
	// NewlyOpenedTotal is the summed full principal of plans opened this
	// statement (installment 1 of N).
	NewlyOpenedTotal float64 `json:"newlyOpenedTotal"`
}

// Bucket is one rendered summary row.
type Bucket struct {
	MonthsRemaining int     `json:"monthsRemaining"`
	Sum             float64 `json:"sum"`
}

// Aggregate performs a single linear pass over the transactions. The result
// is independent of input order: every step is a commutative sum keyed only
// by per-transaction fields.
func Aggregate(txns []models.Transaction) Summary {
	s := Summary{Buckets: make(map[int]float64)}
	for i := range txns {
		s.add(&txns[i])
	}
	return s
}

func (s *Summary) add(t *models.Transaction) {
	months, ok := t.MonthsRemaining()
	if !ok {
		s.NonInstallmentTotal += t.Amount
	} else {
		s.Buckets[months] += t.Amount
	}
	if t.InstallmentIndex != nil && *t.InstallmentIndex == 1 {
		// TotalTransactionAmount is zero when the statement omitted or
		// failed to yield it, so this can never fault.
		s.NewlyOpenedTotal += t.TotalTransactionAmount
	}
}

// Merge folds another partial aggregation into s. Aggregation is associative,
// so partial summaries computed concurrently over document shards combine
// into the same result as one sequential pass.
func (s *Summary) Merge(other Summary) {
	for months, sum := range other.Buckets {
		s.Buckets[months] += sum
	}
	s.NonInstallmentTotal += other.NonInstallmentTotal
	s.NewlyOpenedTotal += other.NewlyOpenedTotal
}

// SortedBuckets renders the buckets ascending by months remaining.
func (s *Summary) SortedBuckets() []Bucket {
	out := make([]Bucket, 0, len(s.Buckets))
	for months, sum := range s.Buckets {
		out = append(out, Bucket{MonthsRemaining: months, Sum: sum})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MonthsRemaining < out[j].MonthsRemaining
	})
	return out
}
