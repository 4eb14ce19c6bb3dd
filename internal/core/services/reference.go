package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/ports/driven"
	"github.com/custodia-labs/aptview/internal/core/ports/driving"
	"github.com/custodia-labs/aptview/internal/logger"
)

// Ensure ReferenceLoader implements the interface.
var _ driving.ReferenceService = (*ReferenceLoader)(nil)

// ReferenceLoader holds the city/district reference data for a session.
type ReferenceLoader struct {
	backend driven.Backend

	mu        sync.RWMutex
	codes     domain.CodeMap
	districts []string
	city      string
	err       error
}

// NewReferenceLoader creates a loader backed by backend.
func NewReferenceLoader(backend driven.Backend) *ReferenceLoader {
	return &ReferenceLoader{backend: backend}
}

// LoadCodeMap fetches the code map. A failure leaves the map empty.
func (l *ReferenceLoader) LoadCodeMap(ctx context.Context) (domain.CodeMap, error) {
	codes, err := l.backend.LawdCodes(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.err = fmt.Errorf("load code map: %w", err)
		l.codes = domain.CodeMap{}
		logger.Warn("code map load failed: %v", err)
		return l.codes, l.err
	}
	l.codes = codes
	l.err = nil
	logger.Debug("code map loaded: %d cities", codes.Len())
	return codes, nil
}

// LoadDistricts fetches the districts of city. An empty city returns the
// current list. On failure the previous list stays in place.
func (l *ReferenceLoader) LoadDistricts(ctx context.Context, city string) ([]string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return l.Districts(), nil
	}

	districts, err := l.backend.Districts(ctx, city)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.err = fmt.Errorf("load districts for %s: %w", city, err)
		logger.Warn("district load failed for %s: %v", city, err)
		return append([]string(nil), l.districts...), l.err
	}
	l.districts = append([]string(nil), districts...)
	l.city = city
	l.err = nil
	logger.Debug("districts loaded for %s: %d", city, len(districts))
	return append([]string(nil), districts...), nil
}

// CodeMap returns the loaded code map.
func (l *ReferenceLoader) CodeMap() domain.CodeMap {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.codes
}

// Districts returns the current district list.
func (l *ReferenceLoader) Districts() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.districts...)
}

// City returns the city the current district list belongs to.
func (l *ReferenceLoader) City() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.city
}

// Err returns the last load error.
func (l *ReferenceLoader) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}
