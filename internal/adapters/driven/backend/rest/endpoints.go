package rest

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/aptview/internal/core/domain"
)

// Endpoint paths.
const (
	pathLawdCodes    = "/lawd-codes"
	pathDistricts    = "/sgg-list/"
	pathDistrictCode = "/district-code"
	pathTradeData    = "/trade-data"
	pathGeocode      = "/geocode-trade-history"
	pathForecast     = "/forecast"
	pathChat         = "/chat"
)

type districtCodeResponse struct {
	DistrictName string `json:"district_name,omitempty"`
	DistrictCode string `json:"district_code"`
}

type tradeRequest struct {
	TradeData []domain.TransactionRecord `json:"trade_data"`
}

type forecastRequest struct {
	TradeData []domain.TransactionRecord `json:"trade_data"`
	Periods   int                        `json:"periods"`
}

type chatRequest struct {
	TradeData []domain.TransactionRecord `json:"trade_data"`
	Question  string                     `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// LawdCodes fetches GET /lawd-codes.
func (c *Client) LawdCodes(ctx context.Context) (domain.CodeMap, error) {
	if cached, ok := c.cache.get(cacheKeyCodes); ok {
		return cached.(domain.CodeMap), nil
	}

	var codes domain.CodeMap
	if err := c.getJSON(ctx, pathLawdCodes, nil, &codes); err != nil {
		return domain.CodeMap{}, err
	}
	c.cache.set(cacheKeyCodes, codes)
	return codes, nil
}

// Districts fetches GET /sgg-list/{city}.
func (c *Client) Districts(ctx context.Context, city string) ([]string, error) {
	key := cacheKeyDistricts + city
	if cached, ok := c.cache.get(key); ok {
		return append([]string{}, cached.([]string)...), nil
	}

	var districts []string
	if err := c.getJSON(ctx, pathDistricts+url.PathEscape(city), nil, &districts); err != nil {
		return nil, err
	}
	if districts == nil {
		districts = []string{}
	}
	c.cache.set(key, append([]string{}, districts...))
	return districts, nil
}

// DistrictCode fetches GET /district-code?sido=&district_name=.
// The code is resolved on every call and never cached.
func (c *Client) DistrictCode(ctx context.Context, city, district string) (string, error) {
	q := url.Values{}
	q.Set("sido", city)
	q.Set("district_name", district)

	var resp districtCodeResponse
	if err := c.getJSON(ctx, pathDistrictCode, q, &resp); err != nil {
		return "", err
	}
	code := strings.TrimSpace(resp.DistrictCode)
	if code == "" {
		return "", &domain.NetworkError{Op: "GET " + pathDistrictCode, StatusCode: 200, Detail: "법정동 코드가 응답에 없습니다"}
	}
	return code, nil
}

// TradeData fetches GET /trade-data. Unset optional filters are omitted.
func (c *Client) TradeData(ctx context.Context, code string, criteria domain.QueryCriteria) ([]domain.TransactionRecord, error) {
	q := url.Values{}
	q.Set("lawd_cd", code)
	q.Set("start_ym", criteria.StartPeriod)
	q.Set("end_ym", criteria.EndPeriod)
	if name := strings.TrimSpace(criteria.ApartmentName); name != "" {
		q.Set("apt_name", name)
	}
	if criteria.Area.Min != nil {
		q.Set("min_area", formatFloat(*criteria.Area.Min))
	}
	if criteria.Area.Max != nil {
		q.Set("max_area", formatFloat(*criteria.Area.Max))
	}

	var rows []domain.TransactionRecord
	if err := c.getJSON(ctx, pathTradeData, q, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.TransactionRecord{}
	}
	return rows, nil
}

// Geocode posts the rows to /geocode-trade-history.
func (c *Client) Geocode(ctx context.Context, rows []domain.TransactionRecord) ([]domain.GeocodedTransaction, error) {
	var out []domain.GeocodedTransaction
	if err := c.postJSON(ctx, pathGeocode, tradeRequest{TradeData: nonNil(rows)}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.GeocodedTransaction{}
	}
	return out, nil
}

// Forecast posts the rows and horizon to /forecast.
func (c *Client) Forecast(ctx context.Context, rows []domain.TransactionRecord, periods int) (*domain.ForecastResult, error) {
	var out domain.ForecastResult
	req := forecastRequest{TradeData: nonNil(rows), Periods: periods}
	if err := c.postJSON(ctx, pathForecast, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat posts the rows and question to /chat.
func (c *Client) Chat(ctx context.Context, rows []domain.TransactionRecord, question string) (string, error) {
	var out chatResponse
	req := chatRequest{TradeData: nonNil(rows), Question: question}
	if err := c.postJSON(ctx, pathChat, req, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}

func nonNil(rows []domain.TransactionRecord) []domain.TransactionRecord {
	if rows == nil {
		return []domain.TransactionRecord{}
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
