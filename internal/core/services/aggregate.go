package services

import (
	"sort"

	"github.com/custodia-labs/aptview/internal/core/domain"
)

// MonthlyAverages groups rows by "YYYY-MM" and averages the parsable deal
// amounts of each group. Rows without a year and month are skipped, rows
// with an unparsable amount count toward neither sum nor count, and a
// month with no parsable amount is omitted. Output is sorted by label.
func MonthlyAverages(rows []domain.TransactionRecord) []domain.MonthlyAverage {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)

	for i := range rows {
		month := rows[i].YearMonth()
		if month == "" {
			continue
		}
		amount, ok := rows[i].Amount()
		if !ok {
			continue
		}
		g, exists := groups[month]
		if !exists {
			g = &acc{}
			groups[month] = g
		}
		g.sum += amount
		g.count++
	}

	out := make([]domain.MonthlyAverage, 0, len(groups))
	for month, g := range groups {
		out = append(out, domain.MonthlyAverage{
			Month:   month,
			Average: g.sum / float64(g.count),
			Count:   g.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})
	return out
}

// DisplayColumns derives table columns from the first row's keys in wire
// order. Later rows never add columns.
func DisplayColumns(rows []domain.TransactionRecord, policy domain.ColumnPolicy) []domain.Column {
	if len(rows) == 0 {
		return nil
	}

	var cols []domain.Column
	for _, key := range rows[0].FieldKeys() {
		if domain.HiddenColumns[key] {
			continue
		}
		label, known := domain.ColumnLabels[key]
		if !known {
			if policy == domain.ColumnsAllowList {
				continue
			}
			label = key
		}
		cols = append(cols, domain.Column{Key: key, Label: label})
	}
	return cols
}

// ProjectRows renders each row as one cell per column. A key missing
// from a row renders as an empty cell.
func ProjectRows(rows []domain.TransactionRecord, columns []domain.Column) [][]string {
	out := make([][]string, len(rows))
	for i := range rows {
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j], _ = rows[i].Get(col.Key)
		}
		out[i] = cells
	}
	return out
}

// MergeForecast outer-joins historical and forecast points by year-month.
// A month present in only one series has nil for the other value.
func MergeForecast(result *domain.ForecastResult) []domain.ForecastRow {
	if result.IsEmpty() {
		return nil
	}

	byMonth := make(map[string]*domain.ForecastRow)
	row := func(month string) *domain.ForecastRow {
		r, ok := byMonth[month]
		if !ok {
			r = &domain.ForecastRow{Month: month}
			byMonth[month] = r
		}
		return r
	}

	for _, p := range result.Historical {
		month := p.DS.YearMonth()
		if month == "" {
			continue
		}
		y := p.Y
		row(month).Actual = &y
	}
	for _, p := range result.Forecast {
		month := p.DS.YearMonth()
		if month == "" {
			continue
		}
		yhat := p.Yhat
		row(month).Predicted = &yhat
	}

	out := make([]domain.ForecastRow, 0, len(byMonth))
	for _, r := range byMonth {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})
	return out
}
