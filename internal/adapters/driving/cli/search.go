package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/components/chart"
	"github.com/custodia-labs/aptview/internal/core/domain"
	coreservices "github.com/custodia-labs/aptview/internal/core/services"
)

var (
	searchQuery   queryFlags
	searchGeocode bool
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search apartment transactions",
	Long: `Fetches apartment sale transactions for a district and month range
and prints them with the monthly average price.

Example:
  aptview search --city 서울특별시 --district 강남구 --from 202401 --to 202406`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	searchQuery.bind(searchCmd)
	searchCmd.Flags().BoolVar(&searchGeocode, "geocode", false, "include longitude/latitude columns")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// monthlyJSON is one monthly average in JSON output.
type monthlyJSON struct {
	Month   string  `json:"month"`
	Average float64 `json:"average_manwon"`
	Count   int     `json:"count"`
}

func runSearch(cmd *cobra.Command, _ []string) error {
	outcome, err := runQuery(cmd.Context(), &searchQuery)
	if outcome == nil {
		return err
	}
	if err != nil {
		cmd.PrintErrf("경고: %s\n", domain.UserMessage(err))
	}

	rows := outcome.Trades
	if searchGeocode && len(outcome.Geocoded) == len(outcome.Trades) {
		rows = domain.Records(outcome.Geocoded)
	}
	monthly := coreservices.MonthlyAverages(rows)

	if searchJSON {
		return printSearchJSON(cmd, outcome, rows, monthly)
	}

	if len(rows) == 0 {
		cmd.Println("조회 결과가 없습니다.")
		return nil
	}

	cmd.Printf("거래 %d건 (법정동코드 %s)\n", len(rows), outcome.DistrictCode)
	columns := coreservices.DisplayColumns(rows, columnPolicy())
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Label
	}
	cmd.Println(renderTable(headers, coreservices.ProjectRows(rows, columns), terminalWidth(cmd)))

	cmd.Println()
	cmd.Println("월별 평균")
	for _, m := range monthly {
		cmd.Printf("  %s  %s (%d건)\n", m.Month, domain.FormatManwon(m.Average), m.Count)
	}
	if plot := chart.PriceChart(monthly, chartWidth(cmd), 10); plot != "" {
		cmd.Println()
		cmd.Println(plot)
	}
	return nil
}

func printSearchJSON(
	cmd *cobra.Command,
	outcome *domain.SearchOutcome,
	rows []domain.TransactionRecord,
	monthly []domain.MonthlyAverage,
) error {
	payload := struct {
		DistrictCode string                     `json:"district_code"`
		Trades       []domain.TransactionRecord `json:"trades"`
		Monthly      []monthlyJSON              `json:"monthly"`
	}{
		DistrictCode: outcome.DistrictCode,
		Trades:       rows,
		Monthly:      make([]monthlyJSON, len(monthly)),
	}
	if payload.Trades == nil {
		payload.Trades = []domain.TransactionRecord{}
	}
	for i, m := range monthly {
		payload.Monthly[i] = monthlyJSON{Month: m.Month, Average: m.Average, Count: m.Count}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
