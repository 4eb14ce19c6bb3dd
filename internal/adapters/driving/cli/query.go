package cli

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/logger"
)

// defaultChartWidth is used for charts when stdout is not a terminal.
const defaultChartWidth = 80

var now = time.Now

// queryFlags are the search criteria flags shared by search, forecast and ask.
type queryFlags struct {
	city     string
	district string
	from     string
	to       string
	apt      string
	minArea  string
	maxArea  string
}

func (f *queryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.city, "city", "", "city (시/도), e.g. 서울특별시")
	cmd.Flags().StringVar(&f.district, "district", "", "district (시/군/구), e.g. 강남구")
	cmd.Flags().StringVar(&f.from, "from", "", "first month YYYYMM (default: five months ago)")
	cmd.Flags().StringVar(&f.to, "to", "", "last month YYYYMM (default: this month)")
	cmd.Flags().StringVar(&f.apt, "apt", "", "apartment name filter")
	cmd.Flags().StringVar(&f.minArea, "min-area", "", "minimum exclusive area in m²")
	cmd.Flags().StringVar(&f.maxArea, "max-area", "", "maximum exclusive area in m²")
}

// criteria builds search criteria, filling blank periods with the defaults.
func (f *queryFlags) criteria() (domain.QueryCriteria, error) {
	from, to := domain.DefaultPeriods(now())
	if strings.TrimSpace(f.from) != "" {
		from = f.from
	}
	if strings.TrimSpace(f.to) != "" {
		to = f.to
	}

	minArea, err := parseArea(f.minArea)
	if err != nil {
		return domain.QueryCriteria{}, err
	}
	maxArea, err := parseArea(f.maxArea)
	if err != nil {
		return domain.QueryCriteria{}, err
	}

	return domain.QueryCriteria{
		City:          f.city,
		District:      f.district,
		StartPeriod:   from,
		EndPeriod:     to,
		ApartmentName: f.apt,
		Area:          domain.AreaRange{Min: minArea, Max: maxArea},
	}, nil
}

func parseArea(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &domain.ValidationError{Fields: []string{domain.FieldArea}, Reason: "면적은 숫자로 입력해 주세요"}
	}
	return &v, nil
}

// runQuery loads the code map when needed and runs the search pipeline.
// A geocoding failure returns the outcome together with the error.
func runQuery(ctx context.Context, f *queryFlags) (*domain.SearchOutcome, error) {
	if services == nil || services.Reference == nil || services.Search == nil {
		return nil, errNotConfigured
	}

	criteria, err := f.criteria()
	if err != nil {
		return nil, err
	}

	if services.Reference.CodeMap().IsEmpty() {
		if _, err := services.Reference.LoadCodeMap(ctx); err != nil {
			return nil, err
		}
	}
	outcome, err := services.Search.Search(ctx, criteria)
	if err != nil && (outcome == nil || len(outcome.Trades) == 0) {
		return nil, err
	}
	return outcome, err
}

// queryTrades runs a search for commands that only need the rows.
func queryTrades(cmd *cobra.Command, f *queryFlags) ([]domain.TransactionRecord, error) {
	outcome, err := runQuery(cmd.Context(), f)
	if outcome == nil {
		return nil, err
	}
	if err != nil {
		logger.Warn("continuing without coordinates: %v", err)
	}
	return outcome.Trades, nil
}

// terminalWidth returns the width of cmd's output, or 0 when it is not
// a terminal.
func terminalWidth(cmd *cobra.Command) int {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

func chartWidth(cmd *cobra.Command) int {
	if w := terminalWidth(cmd); w > 0 {
		return w
	}
	return defaultChartWidth
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// renderTable draws a bordered table. A positive width fits it to the terminal.
func renderTable(headers []string, rows [][]string, width int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.String()
}
