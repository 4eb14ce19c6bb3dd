package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// GeocodedTransaction is a TransactionRecord with map coordinates.
// Either coordinate may be nil when the backend could not geocode the row.
type GeocodedTransaction struct {
	TransactionRecord

	Longitude *float64
	Latitude  *float64
}

// HasCoordinates reports whether both coordinates are present.
func (g *GeocodedTransaction) HasCoordinates() bool {
	return g.Longitude != nil && g.Latitude != nil
}

// UnmarshalJSON decodes the record and lifts longitude/latitude out of Extra.
func (g *GeocodedTransaction) UnmarshalJSON(data []byte) error {
	var rec TransactionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	g.TransactionRecord = rec
	g.Longitude = coordinate(rec.Extra[KeyLongitude])
	g.Latitude = coordinate(rec.Extra[KeyLatitude])
	return nil
}

// MarshalJSON encodes the record with its current coordinates.
func (g GeocodedTransaction) MarshalJSON() ([]byte, error) {
	rec := g.TransactionRecord
	extra := make(map[string]json.RawMessage, len(rec.Extra)+2)
	for k, v := range rec.Extra {
		extra[k] = v
	}
	extra[KeyLongitude] = encodeCoordinate(g.Longitude)
	extra[KeyLatitude] = encodeCoordinate(g.Latitude)
	rec.Extra = extra

	keys := rec.FieldKeys()
	for _, k := range []string{KeyLongitude, KeyLatitude} {
		if !containsKey(keys, k) {
			keys = append(keys, k)
		}
	}
	rec.Keys = keys
	return rec.MarshalJSON()
}

// Records strips coordinates from a geocoded sequence.
func Records(rows []GeocodedTransaction) []TransactionRecord {
	out := make([]TransactionRecord, len(rows))
	for i := range rows {
		out[i] = rows[i].TransactionRecord
	}
	return out
}

func coordinate(raw json.RawMessage) *float64 {
	text := rawText(raw)
	if text == "" {
		return nil
	}
	v, err := strconv.ParseFloat(string(bytes.TrimSpace([]byte(text))), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func encodeCoordinate(v *float64) json.RawMessage {
	if v == nil {
		return json.RawMessage("null")
	}
	return json.RawMessage(strconv.FormatFloat(*v, 'f', -1, 64))
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
