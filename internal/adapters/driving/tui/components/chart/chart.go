// Package chart renders line charts for the TUI with asciigraph.
package chart

import (
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/custodia-labs/aptview/internal/core/domain"
)

// Minimum plot dimensions; smaller regions render nothing.
const (
	minWidth  = 10
	minHeight = 3

	// axisWidth is the space asciigraph reserves for labels and the axis.
	axisWidth = 12
)

// PriceChart plots monthly average deal amounts. It returns "" when
// there is nothing to plot or the region is too small.
func PriceChart(points []domain.MonthlyAverage, width, height int) string {
	if len(points) == 0 || width-axisWidth < minWidth || height < minHeight {
		return ""
	}

	series := make([]float64, len(points))
	for i, p := range points {
		series[i] = p.Average
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Caption(caption("월별 평균 거래금액(만원)", points[0].Month, points[len(points)-1].Month)),
		asciigraph.Precision(0),
	}
	if len(series) > 1 {
		opts = append(opts, asciigraph.Width(width-axisWidth))
	}
	return asciigraph.Plot(series, opts...)
}

// ForecastChart plots the actual and predicted series of a merged
// forecast. Months missing from a series are gaps. It returns "" when
// neither series has a value or the region is too small.
func ForecastChart(rows []domain.ForecastRow, width, height int) string {
	if len(rows) == 0 || width-axisWidth < minWidth || height < minHeight {
		return ""
	}

	actual := make([]float64, len(rows))
	predicted := make([]float64, len(rows))
	plotted := 0
	for i, r := range rows {
		actual[i] = valueOrNaN(r.Actual)
		predicted[i] = valueOrNaN(r.Predicted)
		if r.Actual != nil || r.Predicted != nil {
			plotted++
		}
	}
	if plotted == 0 {
		return ""
	}

	var series [][]float64
	var colors []asciigraph.AnsiColor
	if hasValue(actual) {
		series = append(series, actual)
		colors = append(colors, asciigraph.Blue)
	}
	if hasValue(predicted) {
		series = append(series, predicted)
		colors = append(colors, asciigraph.Red)
	}

	// Width interpolation does not preserve gaps, so the series keep
	// one column per month.
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption("실거래(파랑) / 예측(빨강) 만원", rows[0].Month, rows[len(rows)-1].Month)),
	)
}

func caption(title, from, to string) string {
	if from == to {
		return title + "  " + from
	}
	return title + "  " + from + " ~ " + to
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func hasValue(series []float64) bool {
	for _, v := range series {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}
