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
	forecastQuery   queryFlags
	forecastPeriods int
	forecastJSON    bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast monthly average prices",
	Long: `Searches transactions with the given criteria and asks the backend to
forecast the monthly average price for the following months.`,
	Args: cobra.NoArgs,
	RunE: runForecast,
}

func init() {
	forecastQuery.bind(forecastCmd)
	forecastCmd.Flags().IntVar(&forecastPeriods, "periods", domain.DefaultForecastPeriods, "months to forecast")
	forecastCmd.Flags().BoolVar(&forecastJSON, "json", false, "output forecast as JSON")
	rootCmd.AddCommand(forecastCmd)
}

// forecastRowJSON is one merged month in JSON output.
type forecastRowJSON struct {
	Month     string   `json:"month"`
	Actual    *float64 `json:"actual_manwon"`
	Predicted *float64 `json:"predicted_manwon"`
}

func runForecast(cmd *cobra.Command, _ []string) error {
	if err := domain.ValidatePeriods(forecastPeriods); err != nil {
		return err
	}
	if services == nil || services.Forecast == nil {
		return errNotConfigured
	}

	trades, err := queryTrades(cmd, &forecastQuery)
	if err != nil {
		return err
	}

	result, err := services.Forecast.Run(cmd.Context(), trades, forecastPeriods)
	if err != nil {
		return err
	}
	rows := coreservices.MergeForecast(result)

	if forecastJSON {
		out := make([]forecastRowJSON, len(rows))
		for i, r := range rows {
			out[i] = forecastRowJSON{Month: r.Month, Actual: r.Actual, Predicted: r.Predicted}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode forecast: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(rows) == 0 {
		cmd.Println("예측 결과가 없습니다.")
		return nil
	}

	cmd.Printf("거래 %d건 기준 %d개월 예측\n", len(trades), forecastPeriods)
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.Month, manwonOrDash(r.Actual), manwonOrDash(r.Predicted)}
	}
	cmd.Println(renderTable([]string{"년월", "실거래 평균", "예측"}, cells, terminalWidth(cmd)))

	if plot := chart.ForecastChart(rows, chartWidth(cmd), 12); plot != "" {
		cmd.Println()
		cmd.Println(plot)
	}
	return nil
}

func manwonOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return domain.FormatManwon(*v)
}
