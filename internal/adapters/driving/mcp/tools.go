package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/services"
)

// QueryInput selects the transactions a tool works on.
type QueryInput struct {
	City          string   `json:"city" jsonschema:"city or province (시/도), e.g. 서울특별시"`
	District      string   `json:"district" jsonschema:"district (시/군/구) within the city, e.g. 강남구"`
	StartYM       string   `json:"start_ym" jsonschema:"first month to search, YYYYMM"`
	EndYM         string   `json:"end_ym" jsonschema:"last month to search, YYYYMM"`
	ApartmentName string   `json:"apt_name,omitempty" jsonschema:"optional apartment name filter"`
	MinArea       *float64 `json:"min_area,omitempty" jsonschema:"optional minimum exclusive area in m²"`
	MaxArea       *float64 `json:"max_area,omitempty" jsonschema:"optional maximum exclusive area in m²"`
}

// Criteria converts the input to search criteria.
func (q QueryInput) Criteria() domain.QueryCriteria {
	return domain.QueryCriteria{
		City:          q.City,
		District:      q.District,
		StartPeriod:   q.StartYM,
		EndPeriod:     q.EndYM,
		ApartmentName: q.ApartmentName,
		Area:          domain.AreaRange{Min: q.MinArea, Max: q.MaxArea},
	}
}

// ListDistrictsInput is the input schema for the list_districts tool.
type ListDistrictsInput struct {
	City string `json:"city,omitempty" jsonschema:"city to list districts for; omit to list cities"`
}

// ListDistrictsOutput is the output schema for the list_districts tool.
type ListDistrictsOutput struct {
	City  string   `json:"city,omitempty"`
	Names []string `json:"names"`
	Count int      `json:"count"`
}

// SearchInput is the input schema for the search_trades tool.
type SearchInput struct {
	Query QueryInput `json:"query"`
	Limit int        `json:"limit,omitempty" jsonschema:"maximum number of trades to return (default 100)"`
}

// SearchOutput is the output schema for the search_trades tool.
type SearchOutput struct {
	DistrictCode string          `json:"district_code"`
	Count        int             `json:"count"`
	Trades       []TradeOutput   `json:"trades"`
	Monthly      []MonthlyOutput `json:"monthly"`
	Warning      string          `json:"warning,omitempty"`
}

// TradeOutput is one transaction.
type TradeOutput struct {
	Apartment    string   `json:"apartment"`
	Dong         string   `json:"dong,omitempty"`
	Road         string   `json:"road,omitempty"`
	Month        string   `json:"month"`
	Day          string   `json:"day,omitempty"`
	AmountManwon *float64 `json:"amount_manwon,omitempty"`
	Area         string   `json:"area_m2,omitempty"`
	Floor        string   `json:"floor,omitempty"`
	BuildYear    string   `json:"build_year,omitempty"`
	Cancelled    bool     `json:"cancelled,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
}

// MonthlyOutput is one monthly mean.
type MonthlyOutput struct {
	Month         string  `json:"month"`
	AverageManwon float64 `json:"average_manwon"`
	Count         int     `json:"count"`
}

// ForecastInput is the input schema for the forecast_prices tool.
type ForecastInput struct {
	Query   QueryInput `json:"query"`
	Periods int        `json:"periods,omitempty" jsonschema:"months to forecast (default 12)"`
}

// ForecastOutput is the output schema for the forecast_prices tool.
type ForecastOutput struct {
	TradeCount int                 `json:"trade_count"`
	Rows       []ForecastRowOutput `json:"rows"`
}

// ForecastRowOutput is one month of the merged series.
type ForecastRowOutput struct {
	Month     string   `json:"month"`
	Actual    *float64 `json:"actual_manwon,omitempty"`
	Predicted *float64 `json:"predicted_manwon,omitempty"`
}

// AskInput is the input schema for the ask_trades tool.
type AskInput struct {
	Query    QueryInput `json:"query"`
	Question string     `json:"question" jsonschema:"natural-language question about the trades"`
}

// AskOutput is the output schema for the ask_trades tool.
type AskOutput struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	TradeCount int    `json:"trade_count"`
}

// defaultTradeLimit caps search_trades output.
const defaultTradeLimit = 100

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_districts",
		Description: "List cities, or the districts of one city, accepted by the other tools",
	}, s.handleListDistricts)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_trades",
		Description: "Search Korean apartment sale transactions for a district and month range",
	}, s.handleSearch)

	if s.ports.Forecast != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "forecast_prices",
			Description: "Forecast monthly average prices from the matching transactions",
		}, s.handleForecast)
	}

	if s.ports.Chat != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask_trades",
			Description: "Ask a question about the matching transactions",
		}, s.handleAsk)
	}
}

// handleListDistricts handles the list_districts tool invocation.
func (s *Server) handleListDistricts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDistrictsInput,
) (*mcp.CallToolResult, ListDistrictsOutput, error) {
	city := strings.TrimSpace(input.City)
	if city == "" {
		codes, err := s.codeMap(ctx)
		if err != nil {
			return nil, ListDistrictsOutput{}, err
		}
		cities := codes.Cities()
		return nil, ListDistrictsOutput{Names: cities, Count: len(cities)}, nil
	}

	districts, err := s.ports.Reference.LoadDistricts(ctx, city)
	if err != nil {
		return nil, ListDistrictsOutput{}, err
	}
	if districts == nil {
		districts = []string{}
	}
	return nil, ListDistrictsOutput{City: city, Names: districts, Count: len(districts)}, nil
}

// handleSearch handles the search_trades tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultTradeLimit
	}

	outcome, err := s.search(ctx, input.Query)
	if outcome == nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		DistrictCode: outcome.DistrictCode,
		Count:        len(outcome.Trades),
		Trades:       tradeOutputs(outcome, limit),
		Monthly:      monthlyOutputs(services.MonthlyAverages(outcome.Trades)),
	}
	if err != nil {
		output.Warning = domain.UserMessage(err)
	}
	return nil, output, nil
}

// handleForecast handles the forecast_prices tool invocation.
func (s *Server) handleForecast(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ForecastInput,
) (*mcp.CallToolResult, ForecastOutput, error) {
	trades, err := s.trades(ctx, input.Query)
	if err != nil {
		return nil, ForecastOutput{}, err
	}

	result, err := s.ports.Forecast.Run(ctx, trades, input.Periods)
	if err != nil {
		return nil, ForecastOutput{}, err
	}

	merged := services.MergeForecast(result)
	output := ForecastOutput{
		TradeCount: len(trades),
		Rows:       make([]ForecastRowOutput, len(merged)),
	}
	for i, row := range merged {
		output.Rows[i] = ForecastRowOutput{Month: row.Month, Actual: row.Actual, Predicted: row.Predicted}
	}
	return nil, output, nil
}

// handleAsk handles the ask_trades tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, &domain.ValidationError{Fields: []string{domain.FieldQuestion}, Reason: "질문을 입력해 주세요"}
	}

	trades, err := s.trades(ctx, input.Query)
	if err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := s.ports.Chat.Ask(ctx, trades, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{
		Question:   strings.TrimSpace(input.Question),
		Answer:     answer,
		TradeCount: len(trades),
	}, nil
}

// search loads the code map if needed and runs the pipeline. The outcome
// is returned alongside an error only when trades were fetched, i.e. the
// geocode step failed.
func (s *Server) search(ctx context.Context, q QueryInput) (*domain.SearchOutcome, error) {
	if _, err := s.codeMap(ctx); err != nil {
		return nil, err
	}
	outcome, err := s.ports.Search.Search(ctx, q.Criteria())
	if err != nil && (outcome == nil || len(outcome.Trades) == 0) {
		return nil, err
	}
	return outcome, err
}

// trades runs a search and returns its rows. Coordinates are not needed,
// so a geocoding failure still yields the rows.
func (s *Server) trades(ctx context.Context, q QueryInput) ([]domain.TransactionRecord, error) {
	outcome, err := s.search(ctx, q)
	if outcome == nil {
		if err == nil {
			err = errors.New("search returned no outcome")
		}
		return nil, err
	}
	if len(outcome.Trades) == 0 {
		return nil, domain.ErrNoData
	}
	return outcome.Trades, nil
}

func tradeOutputs(outcome *domain.SearchOutcome, limit int) []TradeOutput {
	out := make([]TradeOutput, 0, min(limit, len(outcome.Trades)))
	located := len(outcome.Geocoded) == len(outcome.Trades)

	for i := range outcome.Trades {
		if len(out) == limit {
			break
		}
		rec := &outcome.Trades[i]
		trade := TradeOutput{
			Apartment: rec.ApartmentName(),
			Dong:      rec.UmdNm,
			Road:      rec.RoadName(),
			Month:     rec.YearMonth(),
			Day:       rec.DealDay,
			Area:      rec.ExcluUseAr,
			Floor:     rec.Floor,
			BuildYear: rec.BuildYear,
			Cancelled: rec.Cancelled(),
		}
		if amount, ok := rec.Amount(); ok {
			trade.AmountManwon = &amount
		}
		if located {
			trade.Longitude = outcome.Geocoded[i].Longitude
			trade.Latitude = outcome.Geocoded[i].Latitude
		}
		out = append(out, trade)
	}
	return out
}

func monthlyOutputs(points []domain.MonthlyAverage) []MonthlyOutput {
	out := make([]MonthlyOutput, len(points))
	for i, p := range points {
		out[i] = MonthlyOutput{Month: p.Month, AverageManwon: p.Average, Count: p.Count}
	}
	return out
}
