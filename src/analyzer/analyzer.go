// Package analyzer computes the fixed set of descriptive insights over the
// loaded transactions table.
package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"shoppingtrends/src/utils"
)

// Analyze computes all nineteen insights. The returned set is ordered by
// computation order, which is also the order the reporter prints.
func Analyze(df dataframe.DataFrame) (*Insights, error) {
	if missing := utils.MissingColumns(df, requiredColumns()...); len(missing) > 0 {
		return nil, fmt.Errorf("dataset is missing columns: %s", strings.Join(missing, ", "))
	}

	df = withPurchaseMonth(df)
	if df.Err != nil {
		return nil, fmt.Errorf("derive %s: %w", colPurchaseMonth, df.Err)
	}

	subscription, err := groupStats(df, ColSubscriptionStatus, ColPurchaseAmount)
	if err != nil {
		return nil, err
	}
	location, err := groupStats(df, ColLocation, ColPurchaseAmount)
	if err != nil {
		return nil, err
	}

	ins := &Insights{}
	ins.add(KeyAgeDistribution, ageDistribution(df))
	ins.add(KeyPurchaseByCategory, groupedMean(df, ColProductCategory, ColPurchaseAmount))
	ins.add(KeyPurchasesByGender, valueCounts(df, ColGender))
	ins.add(KeyTopItemsByCategory, topItemsByCategory(df, 3))
	ins.add(KeySeasonalSpending, groupedMean(df, colPurchaseMonth, ColPurchaseAmount))
	ins.add(KeyRatingByCategory, groupedMean(df, ColProductCategory, ColReviewRating))
	ins.add(KeySubscriptionComparison, subscription)
	ins.add(KeyPaymentMethods, valueCounts(df, ColPaymentMethod))
	ins.add(KeyPromoCodeSpending, groupedMean(df, ColPromoCode, ColPurchaseAmount))
	ins.add(KeyPurchaseFreqByAge, purchaseFrequencyByAge(df))
	ins.add(KeySizePurchase, groupedMean(df, ColProductSize, ColPurchaseAmount))
	ins.add(KeyShippingPreference, crossTab(df, ColProductCategory, ColShippingType))
	ins.add(KeyDiscountImpact, groupedMean(df, ColDiscountApplied, ColPurchaseAmount))
	ins.add(KeyColorPopularity, valueCounts(df, ColColor))
	ins.add(KeyPreviousPurchasesAvg, Scalar(meanOf(df.Col(ColPreviousPurchases))))
	ins.add(KeyPurchaseByRating, groupedMean(df, ColReviewRating, ColPurchaseAmount))
	ins.add(KeyLocationBehavior, location)
	ins.add(KeyAgeProductCategory, ageProductCategory(df))
	ins.add(KeyPurchaseByGender, groupedMean(df, ColGender, ColPurchaseAmount))
	return ins, nil
}

// withPurchaseMonth parses the purchase date column and mutates a derived
// calendar-month column into the table. Unparsable dates become missing.
func withPurchaseMonth(df dataframe.DataFrame) dataframe.DataFrame {
	records := df.Col(ColPurchaseDate).Records()
	months := make([]string, len(records))
	for i, r := range records {
		if t, ok := utils.ParseDate(r); ok {
			months[i] = strconv.Itoa(int(t.Month()))
		}
	}
	return df.Mutate(series.New(months, series.Int, colPurchaseMonth))
}

func ageDistribution(df dataframe.DataFrame) AgeDistribution {
	ages := cleanFloats(df.Col(ColAge))

	counts := make(map[string]int, len(AgeBinLabels))
	for _, a := range ages {
		if bin, ok := ageBin(a); ok {
			counts[bin]++
		}
	}

	bins := Series{Count: true}
	for _, label := range AgeBinLabels {
		bins.Entries = append(bins.Entries, SeriesEntry{Key: label, Value: float64(counts[label])})
	}

	return AgeDistribution{
		Mean:   stat.Mean(ages, nil),
		Median: median(ages),
		Bins:   bins,
	}
}

// purchaseFrequencyByAge counts purchases per age bucket, zero filled over
// the fixed bucket set.
func purchaseFrequencyByAge(df dataframe.DataFrame) Series {
	ages := df.Col(ColAge)
	amounts := df.Col(ColPurchaseAmount)

	counts := make(map[string]int, len(AgeBinLabels))
	for i := 0; i < df.Nrow(); i++ {
		ae, pe := ages.Elem(i), amounts.Elem(i)
		if ae.IsNA() || pe.IsNA() {
			continue
		}
		if bin, ok := ageBin(ae.Float()); ok {
			counts[bin]++
		}
	}

	out := Series{Count: true}
	for _, label := range AgeBinLabels {
		out.Entries = append(out.Entries, SeriesEntry{Key: label, Value: float64(counts[label])})
	}
	return out
}

// groupedMean averages valCol within each distinct value of keyCol, skipping
// rows with a missing key or value, ordered ascending by key.
func groupedMean(df dataframe.DataFrame, keyCol, valCol string) Series {
	keys := df.Col(keyCol)
	vals := df.Col(valCol)

	buckets := make(map[string][]float64)
	for i := 0; i < df.Nrow(); i++ {
		ke, ve := keys.Elem(i), vals.Elem(i)
		if ke.IsNA() || ve.IsNA() {
			continue
		}
		k := keyString(ke)
		if k == "" {
			continue
		}
		buckets[k] = append(buckets[k], ve.Float())
	}

	out := Series{}
	for _, k := range sortedKeys(buckets) {
		out.Entries = append(out.Entries, SeriesEntry{Key: k, Value: stat.Mean(buckets[k], nil)})
	}
	return out
}

// valueCounts tallies the distinct values of col, ordered by descending
// count, ties broken by key.
func valueCounts(df dataframe.DataFrame, col string) Series {
	s := df.Col(col)

	counts := make(map[string]int)
	for i := 0; i < s.Len(); i++ {
		el := s.Elem(i)
		if el.IsNA() {
			continue
		}
		k := keyString(el)
		if k == "" {
			continue
		}
		counts[k]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keyLess(keys[i], keys[j])
	})

	out := Series{Count: true}
	for _, k := range keys {
		out.Entries = append(out.Entries, SeriesEntry{Key: k, Value: float64(counts[k])})
	}
	return out
}

// groupStats computes the mean and non-missing count of valCol per group of
// keyCol, using the dataframe's own grouping after dropping missing keys.
func groupStats(df dataframe.DataFrame, keyCol, valCol string) (GroupStats, error) {
	clean := df.Filter(dataframe.F{Colname: keyCol, Comparator: series.CompFunc, Comparando: notNA})
	if clean.Err != nil {
		return nil, fmt.Errorf("group by %s: %w", keyCol, clean.Err)
	}

	groups := clean.GroupBy(keyCol)
	if groups.Err != nil {
		return nil, fmt.Errorf("group by %s: %w", keyCol, groups.Err)
	}

	byKey := groups.GetGroups()
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })

	out := make(GroupStats, 0, len(keys))
	for _, k := range keys {
		vals := cleanFloats(byKey[k].Col(valCol))
		gs := GroupStat{Key: k, Count: len(vals)}
		if len(vals) > 0 {
			gs.Mean = stat.Mean(vals, nil)
		}
		out = append(out, gs)
	}
	return out, nil
}

// topItemsByCategory ranks the most frequent purchased items within each
// category, capped at limit per category.
func topItemsByCategory(df dataframe.DataFrame, limit int) Nested {
	cats := df.Col(ColProductCategory)
	items := df.Col(ColItemPurchased)

	counts := make(map[string]map[string]int)
	for i := 0; i < df.Nrow(); i++ {
		ce, ie := cats.Elem(i), items.Elem(i)
		if ce.IsNA() || ie.IsNA() {
			continue
		}
		cat := keyString(ce)
		item := keyString(ie)
		if cat == "" || item == "" {
			continue
		}
		if counts[cat] == nil {
			counts[cat] = make(map[string]int)
		}
		counts[cat][item]++
	}

	out := Nested{}
	for _, cat := range sortedKeys(counts) {
		ranked := countEntriesDesc(counts[cat])
		if len(ranked) > limit {
			ranked = ranked[:limit]
		}
		out = append(out, NestedGroup{Key: cat, Counts: Series{Entries: ranked, Count: true}})
	}
	return out
}

// ageProductCategory counts records per (age bucket, product category), with
// buckets in their fixed order and categories by descending count.
func ageProductCategory(df dataframe.DataFrame) Nested {
	ages := df.Col(ColAge)
	cats := df.Col(ColProductCategory)

	counts := make(map[string]map[string]int)
	for i := 0; i < df.Nrow(); i++ {
		ae, ce := ages.Elem(i), cats.Elem(i)
		if ae.IsNA() || ce.IsNA() {
			continue
		}
		bin, ok := ageBin(ae.Float())
		if !ok {
			continue
		}
		cat := keyString(ce)
		if cat == "" {
			continue
		}
		if counts[bin] == nil {
			counts[bin] = make(map[string]int)
		}
		counts[bin][cat]++
	}

	out := Nested{}
	for _, bin := range AgeBinLabels {
		if len(counts[bin]) == 0 {
			continue
		}
		out = append(out, NestedGroup{
			Key:    bin,
			Counts: Series{Entries: countEntriesDesc(counts[bin]), Count: true},
		})
	}
	return out
}

// crossTab counts records per (rowCol, colCol) pair and shapes them as a
// grid with one row and column per distinct value, zero filled.
func crossTab(df dataframe.DataFrame, rowCol, colCol string) Grid {
	rows := df.Col(rowCol)
	cols := df.Col(colCol)

	counts := make(map[string]map[string]int)
	colSet := make(map[string]struct{})
	for i := 0; i < df.Nrow(); i++ {
		re, ce := rows.Elem(i), cols.Elem(i)
		if re.IsNA() || ce.IsNA() {
			continue
		}
		r := keyString(re)
		c := keyString(ce)
		if r == "" || c == "" {
			continue
		}
		if counts[r] == nil {
			counts[r] = make(map[string]int)
		}
		counts[r][c]++
		colSet[c] = struct{}{}
	}

	grid := Grid{Rows: sortedKeys(counts), Cols: sortedKeys(colSet)}
	grid.Cells = make([][]int, len(grid.Rows))
	for i, r := range grid.Rows {
		grid.Cells[i] = make([]int, len(grid.Cols))
		for j, c := range grid.Cols {
			grid.Cells[i][j] = counts[r][c]
		}
	}
	return grid
}

func notNA(el series.Element) bool {
	return !el.IsNA()
}

// keyString renders a group key. Numeric elements print in their shortest
// form, so float keys group as "4.5" rather than "4.500000".
func keyString(el series.Element) string {
	s := strings.TrimSpace(el.String())
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

// cleanFloats converts a series to floats with missing values dropped.
func cleanFloats(s series.Series) []float64 {
	out := make([]float64, 0, s.Len())
	for _, v := range s.Float() {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func meanOf(s series.Series) float64 {
	return stat.Mean(cleanFloats(s), nil)
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// keyLess orders keys numerically when both sides parse as numbers, so month
// and rating keys sort as values rather than strings.
func keyLess(a, b string) bool {
	af, aerr := strconv.ParseFloat(a, 64)
	bf, berr := strconv.ParseFloat(b, 64)
	if aerr == nil && berr == nil {
		return af < bf
	}
	return a < b
}

func countEntriesDesc(counts map[string]int) []SeriesEntry {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keyLess(keys[i], keys[j])
	})

	entries := make([]SeriesEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, SeriesEntry{Key: k, Value: float64(counts[k])})
	}
	return entries
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}
