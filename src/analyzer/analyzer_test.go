package analyzer

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppingtrends/src/datasource/file"
)

const fixtureHeader = "Age,Purchase Amount,Review Rating,Product Category,Item Purchased,Purchase Date," +
	"Gender,Subscription Status,Payment Method,Used Promo Code,Product Size,Shipping Type," +
	"Discount Applied,Color,Previous Purchases,Location"

const fixtureCSV = fixtureHeader + `
25,100,4.5,Clothing,Shirt,2023-01-15,Male,Yes,Credit Card,Yes,M,Express,Yes,Blue,5,Boston
32,50,3.5,Clothing,Shirt,2023-02-10,Female,No,PayPal,No,L,Standard,No,Red,2,Boston
17,30,4.0,Footwear,Sneakers,2023-02-20,Male,No,Credit Card,No,M,Standard,No,Blue,1,Seattle
65,120,5.0,Footwear,Boots,2023-03-05,Female,Yes,Cash,Yes,S,Express,Yes,Black,8,Boston
`

func analyzeFixture(t *testing.T, csv string) *Insights {
	t.Helper()
	df, err := file.ReadCSVFrom(strings.NewReader(csv), NumericColumns())
	require.NoError(t, err)
	insights, err := Analyze(df)
	require.NoError(t, err)
	return insights
}

func getSeries(t *testing.T, insights *Insights, key string) Series {
	t.Helper()
	v, ok := insights.Get(key)
	require.True(t, ok, "insight %q missing", key)
	s, ok := v.(Series)
	require.True(t, ok, "insight %q is %T, want Series", key, v)
	return s
}

func TestAnalyzeComputesAllInsightsInOrder(t *testing.T) {
	insights := analyzeFixture(t, fixtureCSV)

	wantKeys := []string{
		KeyAgeDistribution,
		KeyPurchaseByCategory,
		KeyPurchasesByGender,
		KeyTopItemsByCategory,
		KeySeasonalSpending,
		KeyRatingByCategory,
		KeySubscriptionComparison,
		KeyPaymentMethods,
		KeyPromoCodeSpending,
		KeyPurchaseFreqByAge,
		KeySizePurchase,
		KeyShippingPreference,
		KeyDiscountImpact,
		KeyColorPopularity,
		KeyPreviousPurchasesAvg,
		KeyPurchaseByRating,
		KeyLocationBehavior,
		KeyAgeProductCategory,
		KeyPurchaseByGender,
	}
	require.Equal(t, len(wantKeys), insights.Len())
	for i, e := range insights.Entries() {
		assert.Equal(t, wantKeys[i], e.Key)
	}
}

func TestAgeDistribution(t *testing.T) {
	insights := analyzeFixture(t, fixtureCSV)

	v, ok := insights.Get(KeyAgeDistribution)
	require.True(t, ok)
	dist, ok := v.(AgeDistribution)
	require.True(t, ok)

	assert.InDelta(t, 34.75, dist.Mean, 1e-9)
	assert.InDelta(t, 28.5, dist.Median, 1e-9)

	want := map[string]float64{"0-18": 1, "19-30": 1, "31-45": 1, "46-60": 0, "60+": 1}
	require.Len(t, dist.Bins.Entries, len(AgeBinLabels))
	for _, e := range dist.Bins.Entries {
		assert.Equal(t, want[e.Key], e.Value, "bin %s", e.Key)
	}
}

func TestAgeBinsPlacement(t *testing.T) {
	csv := fixtureHeader + `
17,10,4.0,Clothing,Shirt,2023-01-01,Male,No,Cash,No,M,Standard,No,Blue,1,Boston
25,10,4.0,Clothing,Shirt,2023-01-01,Male,No,Cash,No,M,Standard,No,Blue,1,Boston
50,10,4.0,Clothing,Shirt,2023-01-01,Male,No,Cash,No,M,Standard,No,Blue,1,Boston
65,10,4.0,Clothing,Shirt,2023-02-01,Male,No,Cash,No,M,Standard,No,Blue,1,Boston
`
	insights := analyzeFixture(t, csv)
	v, _ := insights.Get(KeyAgeDistribution)
	dist := v.(AgeDistribution)

	want := map[string]float64{"0-18": 1, "19-30": 1, "31-45": 0, "46-60": 1, "60+": 1}
	for _, e := range dist.Bins.Entries {
		assert.Equal(t, want[e.Key], e.Value, "bin %s", e.Key)
	}
}

func TestGroupedMeans(t *testing.T) {
	insights := analyzeFixture(t, fixtureCSV)

	byCategory := getSeries(t, insights, KeyPurchaseByCategory)
	require.Equal(t, []SeriesEntry{
		{Key: "Clothing", Value: 75},
		{Key: "Footwear", Value: 75},
	}, byCategory.Entries)

	rating := getSeries(t, insights, KeyRatingByCategory)
	require.Len(t, rating.Entries, 2)
	assert.InDelta(t, 4.0, rating.Entries[0].Value, 1e-9)
	assert.InDelta(t, 4.5, rating.Entries[1].Value, 1e-9)

	promo := getSeries(t, insights, KeyPromoCodeSpending)
	require.Equal(t, []SeriesEntry{
		{Key: "No", Value: 40},
		{Key: "Yes", Value: 110},
	}, promo.Entries)

	discount := getSeries(t, insights, KeyDiscountImpact)
	require.Equal(t, []SeriesEntry{
		{Key: "No", Value: 40},
		{Key: "Yes", Value: 110},
	}, discount.Entries)

	size := getSeries(t, insights, KeySizePurchase)
	require.Equal(t, []SeriesEntry{
		{Key: "L", Value: 50},
		{Key: "M", Value: 65},
		{Key: "S", Value: 120},
	}, size.Entries)

	gender := getSeries(t, insights, KeyPurchaseByGender)
	require.Equal(t, []SeriesEntry{
		{Key: "Female", Value: 85},
		{Key: "Male", Value: 65},
	}, gender.Entries)
}

func TestValueCounts(t *testing.T) {
	insights := analyzeFixture(t, fixtureCSV)

	genders := getSeries(t, insights, KeyPurchasesByGender)
	require.Equal(t, []SeriesEntry{
		{Key: "Female", Value: 2},
		{Key: "Male", Value: 2},
	}, genders.Entries)
	assert.True(t, genders.Count)

	payments := getSeries(t, insights, KeyPaymentMethods)
	require.Equal(t, []SeriesEntry{
		{Key: "Credit Card", Value: 2},
		{Key: "Cash", Value: 1},
		{Key: "PayPal", Value: 1},
	}, payments.Entries)

	colors := getSeries(t, insights, KeyColorPopularity)
	require.Equal(t, []SeriesEntry{
		{Key: "Blue", Value: 2},
		{Key: "Black", Value: 1},
		{Key: "Red", Value: 1},
	}, colors.Entries)
}

func TestSeasonalSpendingOrdersByMonthNumber(t *testing.T) {
	insights := analyzeFixture(t, fixtureCSV)

	seasonal := getSeries(t, insights, KeySeasonalSpending)
	require.Equal(t, []SeriesEntry{
		{Key: "1", Value: 100},
		{Key: "2", Value: 40},
		{Key: "3", Value: 120},
	}, seasonal.Entries)
}

func TestTopItemsByCategory(t *testing.T) {
	insights := analyzeFixture(t, fixtureCSV)

	v, ok := insights.Get(KeyTopItemsByCategory)
	require.True(t, ok)
	top, ok := v.(Nested)
	require.True(t, ok)

	require.Len(t, top, 2)
	assert.Equal(t, "Clothing", top[0].Key)
	require.Equal(t, []SeriesEntry{{Key: "Shirt", Value: 2}}, top[0].Counts.Entries)

	assert.Equal(t, "Footwear", top[1].Key)
	require.Equal(t, []SeriesEntry{
		{Key: "Boots", Value: 1},
		{Key: "Sneakers", Value: 1},
	}, top[1].Counts.Entries)
}

func TestTopItemsCapsAtLimit(t *testing.T) {
	var rows []string
	for _, item := range []string{"Shirt", "Shirt", "Shirt", "Jeans", "Jeans", "Hat", "Socks"} {
		rows = append(rows, "25,10,4.0,Clothing,"+item+",2023-01-01,Male,No,Cash,No,M,Standard,No,Blue,1,Boston")
	}
	csv := fixtureHeader + "\n" + strings.Join(rows, "\n") + "\n"

	insights := analyzeFixture(t, csv)
	v, _ := insights.Get(KeyTopItemsByCategory)
	top := v.(Nested)

	require.Len(t, top, 1)
	require.Equal(t, []SeriesEntry{
		{Key: "Shirt", Value: 3},
		{Key: "Jeans", Value: 2},
		{Key: "Hat", Value: 1},
	}, top[0].Counts.Entries, "at most three items, by descending frequency")
}

func TestSubscriptionAndLocationStats(t *testing.T) {
	insights := analyzeFixture(t, fixtureCSV)

	v, ok := insights.Get(KeySubscriptionComparison)
	require.True(t, ok)
	sub, ok := v.(GroupStats)
	require.True(t, ok)
	require.Equal(t, GroupStats{
		{Key: "No", Mean: 40, Count: 2},
		{Key: "Yes", Mean: 110, Count: 2},
	}, sub)

	v, ok = insights.Get(KeyLocationBehavior)
	require.True(t, ok)
	loc := v.(GroupStats)
	require.Equal(t, GroupStats{
		{Key: "Boston", Mean: 90, Count: 3},
		{Key: "Seattle", Mean: 30, Count: 1},
	}, loc)
}

func TestShippingGridZeroFills(t *testing.T) {
	csv := fixtureHeader + `
25,100,4.5,Clothing,Shirt,2023-01-15,Male,Yes,Cash,Yes,M,Express,Yes,Blue,5,Boston
32,50,3.5,Clothing,Shirt,2023-02-10,Female,No,Cash,No,L,Standard,No,Red,2,Boston
17,30,4.0,Footwear,Sneakers,2023-02-20,Male,No,Cash,No,M,Standard,No,Blue,1,Seattle
`
	insights := analyzeFixture(t, csv)
	v, ok := insights.Get(KeyShippingPreference)
	require.True(t, ok)
	grid, ok := v.(Grid)
	require.True(t, ok)

	assert.Equal(t, []string{"Clothing", "Footwear"}, grid.Rows)
	assert.Equal(t, []string{"Express", "Standard"}, grid.Cols)
	assert.Equal(t, 1, grid.Cell("Clothing", "Express"))
	assert.Equal(t, 1, grid.Cell("Clothing", "Standard"))
	assert.Equal(t, 0, grid.Cell("Footwear", "Express"), "absent combination is zero, not missing")
	assert.Equal(t, 1, grid.Cell("Footwear", "Standard"))
}

func TestPurchaseFrequencyAndRatingAndScalar(t *testing.T) {
	insights := analyzeFixture(t, fixtureCSV)

	freq := getSeries(t, insights, KeyPurchaseFreqByAge)
	require.Equal(t, []SeriesEntry{
		{Key: "0-18", Value: 1},
		{Key: "19-30", Value: 1},
		{Key: "31-45", Value: 1},
		{Key: "46-60", Value: 0},
		{Key: "60+", Value: 1},
	}, freq.Entries)

	byRating := getSeries(t, insights, KeyPurchaseByRating)
	require.Equal(t, []SeriesEntry{
		{Key: "3.5", Value: 50},
		{Key: "4", Value: 30},
		{Key: "4.5", Value: 100},
		{Key: "5", Value: 120},
	}, byRating.Entries)

	v, ok := insights.Get(KeyPreviousPurchasesAvg)
	require.True(t, ok)
	avg, ok := v.(Scalar)
	require.True(t, ok)
	assert.InDelta(t, 4.0, float64(avg), 1e-9)
}

func TestAgeProductCategory(t *testing.T) {
	insights := analyzeFixture(t, fixtureCSV)

	v, ok := insights.Get(KeyAgeProductCategory)
	require.True(t, ok)
	nested := v.(Nested)

	require.Len(t, nested, 4, "46-60 bucket is empty and omitted")
	assert.Equal(t, "0-18", nested[0].Key)
	require.Equal(t, []SeriesEntry{{Key: "Footwear", Value: 1}}, nested[0].Counts.Entries)
	assert.Equal(t, "19-30", nested[1].Key)
	require.Equal(t, []SeriesEntry{{Key: "Clothing", Value: 1}}, nested[1].Counts.Entries)
	assert.Equal(t, "31-45", nested[2].Key)
	assert.Equal(t, "60+", nested[3].Key)
}

func TestMissingValuesAreExcluded(t *testing.T) {
	csv := fixtureHeader + `
N/A,100,4.5,Clothing,Shirt,2023-01-15,Male,Yes,Cash,Yes,M,Express,Yes,Blue,5,Boston
32,50,3.5,Clothing,Shirt,2023-02-10,Female,No,Cash,No,L,Standard,No,Red,2,Boston
17,30,4.0,Footwear,Sneakers,2023-02-20,Male,No,Cash,No,M,Standard,No,Blue,1,Seattle
`
	insights := analyzeFixture(t, csv)

	v, _ := insights.Get(KeyAgeDistribution)
	dist := v.(AgeDistribution)
	assert.InDelta(t, 24.5, dist.Mean, 1e-9, "mean over the two parsable ages")
	assert.InDelta(t, 24.5, dist.Median, 1e-9)
	assert.False(t, math.IsNaN(dist.Mean))

	freq := getSeries(t, insights, KeyPurchaseFreqByAge)
	var total float64
	for _, e := range freq.Entries {
		total += e.Value
	}
	assert.Equal(t, 2.0, total, "row with missing age contributes to no bucket")
}

func TestUnparsableDatesAreExcludedFromSeasonal(t *testing.T) {
	csv := fixtureHeader + `
25,100,4.5,Clothing,Shirt,not a date,Male,Yes,Cash,Yes,M,Express,Yes,Blue,5,Boston
32,50,3.5,Clothing,Shirt,2023-02-10,Female,No,Cash,No,L,Standard,No,Red,2,Boston
17,30,4.0,Footwear,Sneakers,2023-02-20,Male,No,Cash,No,M,Standard,No,Blue,1,Seattle
`
	insights := analyzeFixture(t, csv)
	seasonal := getSeries(t, insights, KeySeasonalSpending)
	require.Equal(t, []SeriesEntry{{Key: "2", Value: 40}}, seasonal.Entries)
}

func TestAnalyzeFailsOnMissingColumn(t *testing.T) {
	df, err := file.ReadCSVFrom(strings.NewReader("Age,Purchase Amount\n25,100\n"), []string{"Age", "Purchase Amount"})
	require.NoError(t, err)

	_, err = Analyze(df)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Gender")
}
