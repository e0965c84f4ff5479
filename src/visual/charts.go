// Package visual renders the summary chart panels for the computed insights.
package visual

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"shoppingtrends/src/analyzer"
)

const (
	panelWidth  = 500
	panelHeight = 360
	gridCols    = 3
	gridRows    = 2
)

// Render draws the five fixed panels into a 2x3 grid and writes the
// composite PNG to path, overwriting any existing file. The sixth cell is
// left blank.
func Render(path string, insights *analyzer.Insights) error {
	panels := []func(*analyzer.Insights) (image.Image, error){
		ageGroupPanel,
		categoryMeanPanel,
		monthlySpendingPanel,
		paymentMethodPanel,
		genderCountPanel,
	}

	composite := image.NewRGBA(image.Rect(0, 0, gridCols*panelWidth, gridRows*panelHeight))
	draw.Draw(composite, composite.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for i, panel := range panels {
		img, err := panel(insights)
		if err != nil {
			return err
		}
		x := (i % gridCols) * panelWidth
		y := (i / gridCols) * panelHeight
		rect := image.Rect(x, y, x+panelWidth, y+panelHeight)
		draw.Draw(composite, rect, img, img.Bounds().Min, draw.Src)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, composite); err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	return nil
}

func ageGroupPanel(insights *analyzer.Insights) (image.Image, error) {
	dist, err := getAgeDistribution(insights, analyzer.KeyAgeDistribution)
	if err != nil {
		return nil, err
	}
	return renderBar("Age Group Distribution", "Count", dist.Bins.Entries, 45)
}

func categoryMeanPanel(insights *analyzer.Insights) (image.Image, error) {
	s, err := getSeries(insights, analyzer.KeyPurchaseByCategory)
	if err != nil {
		return nil, err
	}
	return renderBar("Avg Purchase Amount by Category", "Average Purchase Amount", s.Entries, 45)
}

func genderCountPanel(insights *analyzer.Insights) (image.Image, error) {
	s, err := getSeries(insights, analyzer.KeyPurchasesByGender)
	if err != nil {
		return nil, err
	}
	return renderBar("Purchases by Gender", "Number of Purchases", s.Entries, 0)
}

func monthlySpendingPanel(insights *analyzer.Insights) (image.Image, error) {
	s, err := getSeries(insights, analyzer.KeySeasonalSpending)
	if err != nil {
		return nil, err
	}
	if len(s.Entries) < 2 {
		return nil, fmt.Errorf("insight %q needs at least two months to draw a line", analyzer.KeySeasonalSpending)
	}

	xs := make([]float64, len(s.Entries))
	ys := make([]float64, len(s.Entries))
	for i, e := range s.Entries {
		var month float64
		if _, err := fmt.Sscanf(e.Key, "%f", &month); err != nil {
			return nil, fmt.Errorf("insight %q has non-month key %q", analyzer.KeySeasonalSpending, e.Key)
		}
		xs[i] = month
		ys[i] = e.Value
	}

	graph := chart.Chart{
		Title:  "Monthly Average Spending",
		Width:  panelWidth,
		Height: panelHeight,
		XAxis: chart.XAxis{
			Name: "Month",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%d", int(f))
				}
				return fmt.Sprint(v)
			},
		},
		YAxis: chart.YAxis{Name: "Average Purchase Amount"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: 2,
					DotWidth:    4,
				},
			},
		},
	}
	return renderToImage(graph.Render)
}

func paymentMethodPanel(insights *analyzer.Insights) (image.Image, error) {
	s, err := getSeries(insights, analyzer.KeyPaymentMethods)
	if err != nil {
		return nil, err
	}
	if len(s.Entries) == 0 {
		return nil, fmt.Errorf("insight %q is empty", analyzer.KeyPaymentMethods)
	}

	var total float64
	for _, e := range s.Entries {
		total += e.Value
	}

	values := make([]chart.Value, len(s.Entries))
	for i, e := range s.Entries {
		values[i] = chart.Value{
			Value: e.Value,
			Label: fmt.Sprintf("%s %.1f%%", e.Key, 100*e.Value/total),
		}
	}

	pie := chart.PieChart{
		Title:  "Payment Method Distribution",
		Width:  panelWidth,
		Height: panelHeight,
		Values: values,
	}
	return renderToImage(pie.Render)
}

func renderBar(title, yName string, entries []analyzer.SeriesEntry, tickRotation float64) (image.Image, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("chart %q has no bars to draw", title)
	}

	bars := make([]chart.Value, len(entries))
	for i, e := range entries {
		bars[i] = chart.Value{Value: e.Value, Label: e.Key}
	}

	bar := chart.BarChart{
		Title:    title,
		Width:    panelWidth,
		Height:   panelHeight,
		BarWidth: 40,
		XAxis:    chart.Style{TextRotationDegrees: tickRotation},
		YAxis:    chart.YAxis{Name: yName},
		Bars:     bars,
	}
	return renderToImage(bar.Render)
}

func renderToImage(render func(chart.RendererProvider, io.Writer) error) (image.Image, error) {
	var buf bytes.Buffer
	if err := render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return img, nil
}

func getSeries(insights *analyzer.Insights, key string) (analyzer.Series, error) {
	v, ok := insights.Get(key)
	if !ok {
		return analyzer.Series{}, fmt.Errorf("insight %q not computed", key)
	}
	s, ok := v.(analyzer.Series)
	if !ok {
		return analyzer.Series{}, fmt.Errorf("insight %q has unexpected shape %T", key, v)
	}
	return s, nil
}

func getAgeDistribution(insights *analyzer.Insights, key string) (analyzer.AgeDistribution, error) {
	v, ok := insights.Get(key)
	if !ok {
		return analyzer.AgeDistribution{}, fmt.Errorf("insight %q not computed", key)
	}
	d, ok := v.(analyzer.AgeDistribution)
	if !ok {
		return analyzer.AgeDistribution{}, fmt.Errorf("insight %q has unexpected shape %T", key, v)
	}
	return d, nil
}
