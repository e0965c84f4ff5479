package analyzer

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Insight keys, in computation order.
const (
	KeyAgeDistribution        = "age_distribution"
	KeyPurchaseByCategory     = "purchase_amount_by_category"
	KeyPurchasesByGender      = "purchases_by_gender"
	KeyTopItemsByCategory     = "top_items_by_category"
	KeySeasonalSpending       = "seasonal_spending"
	KeyRatingByCategory       = "avg_rating_by_category"
	KeySubscriptionComparison = "subscription_purchase_comparison"
	KeyPaymentMethods         = "payment_method_popularity"
	KeyPromoCodeSpending      = "promo_code_spending"
	KeyPurchaseFreqByAge      = "purchase_frequency_by_age"
	KeySizePurchase           = "size_purchase_correlation"
	KeyShippingPreference     = "shipping_type_preference"
	KeyDiscountImpact         = "discount_impact"
	KeyColorPopularity        = "color_popularity"
	KeyPreviousPurchasesAvg   = "previous_purchases_avg"
	KeyPurchaseByRating       = "purchase_by_rating"
	KeyLocationBehavior       = "location_purchase_behavior"
	KeyAgeProductCategory     = "age_product_category"
	KeyPurchaseByGender       = "purchase_amount_by_gender"
)

// Insight is one named aggregation result. The string form is what the
// reporter prints under the insight's title.
type Insight interface {
	fmt.Stringer
}

// Insights is the ordered, write-once set of results keyed by insight name.
type Insights struct {
	entries []InsightEntry
	index   map[string]int
}

// InsightEntry pairs an insight key with its computed value.
type InsightEntry struct {
	Key   string
	Value Insight
}

func (s *Insights) add(key string, value Insight) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, InsightEntry{Key: key, Value: value})
}

// Get looks up an insight by key.
func (s *Insights) Get(key string) (Insight, bool) {
	i, ok := s.index[key]
	if !ok {
		return nil, false
	}
	return s.entries[i].Value, true
}

// Entries returns the insights in insertion order.
func (s *Insights) Entries() []InsightEntry {
	return s.entries
}

// Len reports the number of insights.
func (s *Insights) Len() int {
	return len(s.entries)
}

// Scalar is a single numeric result.
type Scalar float64

func (v Scalar) String() string {
	return fmt.Sprintf("%.2f", float64(v))
}

// SeriesEntry is one key/value pair of a Series.
type SeriesEntry struct {
	Key   string
	Value float64
}

// Series is an ordered key/value result. Count flavored series render their
// values as integers, mean flavored ones with two decimals.
type Series struct {
	Entries []SeriesEntry
	Count   bool
}

func (s Series) String() string {
	var b strings.Builder
	for _, e := range s.Entries {
		if s.Count {
			fmt.Fprintf(&b, "%s: %d\n", e.Key, int(e.Value))
		} else {
			fmt.Fprintf(&b, "%s: %.2f\n", e.Key, e.Value)
		}
	}
	return b.String()
}

// Value returns the value stored under key, with ok reporting presence.
func (s Series) Value(key string) (float64, bool) {
	for _, e := range s.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

// GroupStat is the mean and count of a numeric column within one group.
type GroupStat struct {
	Key   string
	Mean  float64
	Count int
}

// GroupStats is an ordered mean/count result per group key.
type GroupStats []GroupStat

func (g GroupStats) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tmean\tcount")
	for _, s := range g {
		fmt.Fprintf(w, "%s\t%.2f\t%d\n", s.Key, s.Mean, s.Count)
	}
	w.Flush()
	return b.String()
}

// NestedGroup is an inner count series under one outer key.
type NestedGroup struct {
	Key    string
	Counts Series
}

// Nested is a two-level grouped count result.
type Nested []NestedGroup

func (n Nested) String() string {
	var b strings.Builder
	for _, g := range n {
		fmt.Fprintf(&b, "%s:\n", g.Key)
		for _, e := range g.Counts.Entries {
			fmt.Fprintf(&b, "  %s: %d\n", e.Key, int(e.Value))
		}
	}
	return b.String()
}

// Grid is a two-way count table with zero fill for absent combinations.
type Grid struct {
	Rows  []string
	Cols  []string
	Cells [][]int
}

func (g Grid) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\t%s\n", strings.Join(g.Cols, "\t"))
	for i, row := range g.Rows {
		cells := make([]string, len(g.Cells[i]))
		for j, c := range g.Cells[i] {
			cells[j] = fmt.Sprintf("%d", c)
		}
		fmt.Fprintf(w, "%s\t%s\n", row, strings.Join(cells, "\t"))
	}
	w.Flush()
	return b.String()
}

// Cell returns the count for a row/column pair, zero when absent.
func (g Grid) Cell(row, col string) int {
	for i, r := range g.Rows {
		if r != row {
			continue
		}
		for j, c := range g.Cols {
			if c == col {
				return g.Cells[i][j]
			}
		}
	}
	return 0
}

// AgeDistribution is the mean/median age plus binned counts.
type AgeDistribution struct {
	Mean   float64
	Median float64
	Bins   Series
}

func (a AgeDistribution) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mean age: %.2f\n", a.Mean)
	fmt.Fprintf(&b, "median age: %.2f\n", a.Median)
	fmt.Fprint(&b, "age groups:\n")
	for _, e := range a.Bins.Entries {
		fmt.Fprintf(&b, "  %s: %d\n", e.Key, int(e.Value))
	}
	return b.String()
}
