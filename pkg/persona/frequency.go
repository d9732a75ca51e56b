package persona

import (
	"sort"
	"strconv"

	"github.com/ethpandaops/persona/pkg/records"
)

// Denominator selects the total a percentage is computed against.
type Denominator int

const (
	// DenominatorContributions divides by the number of keys counted
	DenominatorContributions Denominator = iota
	// DenominatorTasks divides by the number of tasks in the group
	DenominatorTasks
)

// Extractor derives zero or more keys from a task and its resolved target.
// target is nil when the task's target id did not resolve.
type Extractor[K comparable] func(task *records.Task, target *records.Target) []K

// Ranked is one counted key with its share of the denominator.
type Ranked[K comparable] struct {
	Key        K
	Count      int
	Percentage float64
}

// Frequency counts keys and remembers the order they were first seen in.
type Frequency[K comparable] struct {
	order  []K
	counts map[K]int
	total  int
}

// NewFrequency creates an empty counter.
func NewFrequency[K comparable]() *Frequency[K] {
	return &Frequency[K]{counts: make(map[K]int)}
}

// Add counts one occurrence of key.
func (f *Frequency[K]) Add(key K) {
	if _, ok := f.counts[key]; !ok {
		f.order = append(f.order, key)
	}

	f.counts[key]++
	f.total++
}

// Total is the number of occurrences counted.
func (f *Frequency[K]) Total() int {
	return f.total
}

// Distinct is the number of distinct keys counted.
func (f *Frequency[K]) Distinct() int {
	return len(f.order)
}

// Rank orders keys by descending count, ties keep first-seen order, and truncates
// to limit entries when limit > 0. Percentages are count/denominator*100 rounded to
// two decimals; a non-positive denominator yields no entries.
func (f *Frequency[K]) Rank(limit, denominator int) []Ranked[K] {
	if denominator <= 0 || len(f.order) == 0 {
		return []Ranked[K]{}
	}

	keys := make([]K, len(f.order))
	copy(keys, f.order)

	sort.SliceStable(keys, func(i, j int) bool {
		return f.counts[keys[i]] > f.counts[keys[j]]
	})

	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	ranked := make([]Ranked[K], 0, len(keys))
	for _, key := range keys {
		count := f.counts[key]
		ranked = append(ranked, Ranked[K]{
			Key:        key,
			Count:      count,
			Percentage: Percentage(count, denominator),
		})
	}

	return ranked
}

// Percentage returns count/total*100 rounded to two decimal places, or 0 for a zero total.
// Rounding is done on the exact binary value, so exact ties go to the even digit.
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}

	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(float64(count)/float64(total)*100, 'f', 2, 64), 64)

	return rounded
}

// Tally is a key extractor together with its denominator policy.
type Tally[K comparable] struct {
	Extract     Extractor[K]
	Denominator Denominator
	// Limit truncates the ranking; zero keeps every key.
	Limit int
}

// TallyResult is the outcome of running a Tally over a task group.
type TallyResult[K comparable] struct {
	Entries  []Ranked[K]
	Distinct int
	// Total is the denominator the percentages were computed against.
	Total int
}

// Run counts the keys extracted from every task, ranks them and computes percentages.
func (t Tally[K]) Run(tasks []records.Task, index TargetIndex) TallyResult[K] {
	freq := NewFrequency[K]()

	for i := range tasks {
		task := &tasks[i]
		for _, key := range t.Extract(task, index.Lookup(task.TargetID)) {
			freq.Add(key)
		}
	}

	total := freq.Total()
	if t.Denominator == DenominatorTasks {
		total = len(tasks)
	}

	return TallyResult[K]{
		Entries:  freq.Rank(t.Limit, total),
		Distinct: freq.Distinct(),
		Total:    total,
	}
}
