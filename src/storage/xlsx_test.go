package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shoppingtrends/src/analyzer"
	"shoppingtrends/src/datasource/file"
)

const fixtureCSV = `Age,Purchase Amount,Review Rating,Product Category,Item Purchased,Purchase Date,Gender,Subscription Status,Payment Method,Used Promo Code,Product Size,Shipping Type,Discount Applied,Color,Previous Purchases,Location
25,100,4.5,Clothing,Shirt,2023-01-15,Male,Yes,Credit Card,Yes,M,Express,Yes,Blue,5,Boston
32,50,3.5,Clothing,Shirt,2023-02-10,Female,No,PayPal,No,L,Standard,No,Red,2,Boston
17,30,4.0,Footwear,Sneakers,2023-02-20,Male,No,Credit Card,No,M,Standard,No,Blue,1,Seattle
65,120,5.0,Footwear,Boots,2023-03-05,Female,Yes,Cash,Yes,S,Express,Yes,Black,8,Boston
`

func TestExportXLSX(t *testing.T) {
	df, err := file.ReadCSVFrom(strings.NewReader(fixtureCSV), analyzer.NumericColumns())
	require.NoError(t, err)
	insights, err := analyzer.Analyze(df)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "insights.xlsx")
	require.NoError(t, ExportXLSX(path, insights))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Len(t, sheets, insights.Len())
	assert.NotContains(t, sheets, "Sheet1")
	assert.Contains(t, sheets, "age_distribution")
	// Worksheet names are capped at 31 characters by the format.
	assert.Contains(t, sheets, "subscription_purchase_compariso")

	rows, err := f.GetRows("purchase_amount_by_category")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"key", "value"}, rows[0])
	assert.Equal(t, "Clothing", rows[1][0])

	rows, err = f.GetRows("shipping_type_preference")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per category")
}
