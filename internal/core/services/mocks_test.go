package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/ports/driven"
)

// mockBackend implements driven.Backend for testing.
// Unset funcs fail the call so unexpected requests show up as errors.
type mockBackend struct {
	LawdCodesFunc    func(ctx context.Context) (domain.CodeMap, error)
	DistrictsFunc    func(ctx context.Context, city string) ([]string, error)
	DistrictCodeFunc func(ctx context.Context, city, district string) (string, error)
	TradeDataFunc    func(ctx context.Context, code string, c domain.QueryCriteria) ([]domain.TransactionRecord, error)
	GeocodeFunc      func(ctx context.Context, rows []domain.TransactionRecord) ([]domain.GeocodedTransaction, error)
	ForecastFunc     func(ctx context.Context, rows []domain.TransactionRecord, periods int) (*domain.ForecastResult, error)
	ChatFunc         func(ctx context.Context, rows []domain.TransactionRecord, question string) (string, error)

	calls []string
}

var errUnexpectedCall = errors.New("unexpected backend call")

func (m *mockBackend) LawdCodes(ctx context.Context) (domain.CodeMap, error) {
	m.calls = append(m.calls, "LawdCodes")
	if m.LawdCodesFunc != nil {
		return m.LawdCodesFunc(ctx)
	}
	return domain.CodeMap{}, errUnexpectedCall
}

func (m *mockBackend) Districts(ctx context.Context, city string) ([]string, error) {
	m.calls = append(m.calls, "Districts")
	if m.DistrictsFunc != nil {
		return m.DistrictsFunc(ctx, city)
	}
	return nil, errUnexpectedCall
}

func (m *mockBackend) DistrictCode(ctx context.Context, city, district string) (string, error) {
	m.calls = append(m.calls, "DistrictCode")
	if m.DistrictCodeFunc != nil {
		return m.DistrictCodeFunc(ctx, city, district)
	}
	return "", errUnexpectedCall
}

func (m *mockBackend) TradeData(
	ctx context.Context, code string, c domain.QueryCriteria,
) ([]domain.TransactionRecord, error) {
	m.calls = append(m.calls, "TradeData")
	if m.TradeDataFunc != nil {
		return m.TradeDataFunc(ctx, code, c)
	}
	return nil, errUnexpectedCall
}

func (m *mockBackend) Geocode(
	ctx context.Context, rows []domain.TransactionRecord,
) ([]domain.GeocodedTransaction, error) {
	m.calls = append(m.calls, "Geocode")
	if m.GeocodeFunc != nil {
		return m.GeocodeFunc(ctx, rows)
	}
	return nil, errUnexpectedCall
}

func (m *mockBackend) Forecast(
	ctx context.Context, rows []domain.TransactionRecord, periods int,
) (*domain.ForecastResult, error) {
	m.calls = append(m.calls, "Forecast")
	if m.ForecastFunc != nil {
		return m.ForecastFunc(ctx, rows, periods)
	}
	return nil, errUnexpectedCall
}

func (m *mockBackend) Chat(ctx context.Context, rows []domain.TransactionRecord, question string) (string, error) {
	m.calls = append(m.calls, "Chat")
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, rows, question)
	}
	return "", errUnexpectedCall
}

// mockMount implements driven.MountPoint.
type mockMount struct{ w, h int }

func (m mockMount) Size() (int, int) { return m.w, m.h }

// mockWidget implements driven.MapWidget and records its lifecycle.
type mockWidget struct {
	id      string
	opts    domain.MapOptions
	base    domain.TileLayer
	layer   *mockMarkerLayer
	closed  bool
	baseErr error
}

func (w *mockWidget) ID() string { return w.id }

func (w *mockWidget) SetBaseLayer(layer domain.TileLayer) error {
	if w.baseErr != nil {
		return w.baseErr
	}
	w.base = layer
	return nil
}

func (w *mockWidget) AddMarkerLayer() (driven.MarkerLayer, error) {
	w.layer = &mockMarkerLayer{}
	return w.layer, nil
}

func (w *mockWidget) Render() (string, error) {
	if w.closed {
		return "", errors.New("closed")
	}
	return "map:" + w.id, nil
}

func (w *mockWidget) Close() error {
	if w.closed {
		return errors.New("already closed")
	}
	w.closed = true
	return nil
}

type mockMarkerLayer struct {
	markers []domain.Marker
}

func (l *mockMarkerLayer) AddMarker(m domain.Marker) error {
	l.markers = append(l.markers, m)
	return nil
}

func (l *mockMarkerLayer) Len() int { return len(l.markers) }

// mockMapFactory implements driven.MapFactory and keeps every widget it built.
type mockMapFactory struct {
	widgets []*mockWidget
	baseErr error
	newErr  error
}

func (f *mockMapFactory) NewMap(_ driven.MountPoint, opts domain.MapOptions) (driven.MapWidget, error) {
	if f.newErr != nil {
		return nil, f.newErr
	}
	w := &mockWidget{id: fmt.Sprintf("map-%d", len(f.widgets)+1), opts: opts, baseErr: f.baseErr}
	f.widgets = append(f.widgets, w)
	return w, nil
}

func (f *mockMapFactory) live() int {
	n := 0
	for _, w := range f.widgets {
		if !w.closed {
			n++
		}
	}
	return n
}

func trade(year, month, amount string) domain.TransactionRecord {
	return domain.TransactionRecord{AptNm: "테스트", DealYear: year, DealMonth: month, DealAmount: amount}
}

func located(lon, lat float64) domain.GeocodedTransaction {
	return domain.GeocodedTransaction{
		TransactionRecord: trade("2024", "1", "100"),
		Longitude:         &lon,
		Latitude:          &lat,
	}
}
