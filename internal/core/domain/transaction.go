package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Wire keys of the RTMS apartment trade record.
const (
	KeySggCd            = "sggCd"
	KeyUmdCd            = "umdCd"
	KeyLandCd           = "landCd"
	KeyBonbun           = "bonbun"
	KeyBubun            = "bubun"
	KeyRoadNm           = "roadNm"
	KeyRoadNmSggCd      = "roadNmSggCd"
	KeyRoadNmCd         = "roadNmCd"
	KeyRoadNmSeq        = "roadNmSeq"
	KeyRoadNmbCd        = "roadNmbCd"
	KeyRoadNmBonbun     = "roadNmBonbun"
	KeyRoadNmBubun      = "roadNmBubun"
	KeyUmdNm            = "umdNm"
	KeyAptNm            = "aptNm"
	KeyJibun            = "jibun"
	KeyExcluUseAr       = "excluUseAr"
	KeyDealYear         = "dealYear"
	KeyDealMonth        = "dealMonth"
	KeyDealDay          = "dealDay"
	KeyDealAmount       = "dealAmount"
	KeyFloor            = "floor"
	KeyBuildYear        = "buildYear"
	KeyAptSeq           = "aptSeq"
	KeyCdealType        = "cdealType"
	KeyCdealDay         = "cdealDay"
	KeyDealingGbn       = "dealingGbn"
	KeyEstateAgentSggNm = "estateAgentSggNm"
	KeyRgstDate         = "rgstDate"
	KeyAptDong          = "aptDong"
	KeySlerGbn          = "slerGbn"
	KeyBuyerGbn         = "buyerGbn"
	KeyLandLeaseholdGbn = "landLeaseholdGbn"

	KeyLongitude = "longitude"
	KeyLatitude  = "latitude"
)

// Keys emitted by the reference backend's DataFrame rendering.
const (
	altKeyDealYear   = "deal_year"
	altKeyDealMonth  = "deal_month"
	altKeyDealAmount = "deal_amount"
	altKeyAmountKR   = "거래금액(만원)"
	altKeyDateKR     = "거래일"
	altKeyAptKR      = "아파트"
	altKeyRoadKR     = "도로명"
)

// knownKeys lists the typed fields of TransactionRecord.
var knownKeys = []string{
	KeySggCd, KeyUmdCd, KeyLandCd, KeyBonbun, KeyBubun, KeyRoadNm, KeyRoadNmSggCd,
	KeyRoadNmCd, KeyRoadNmSeq, KeyRoadNmbCd, KeyRoadNmBonbun, KeyRoadNmBubun,
	KeyUmdNm, KeyAptNm, KeyJibun, KeyExcluUseAr, KeyDealYear, KeyDealMonth,
	KeyDealDay, KeyDealAmount, KeyFloor, KeyBuildYear, KeyAptSeq, KeyCdealType,
	KeyCdealDay, KeyDealingGbn, KeyEstateAgentSggNm, KeyRgstDate, KeyAptDong,
	KeySlerGbn, KeyBuyerGbn, KeyLandLeaseholdGbn,
}

// TransactionRecord is one apartment sale.
//
// Known RTMS fields are typed; anything else the backend sends is kept
// in Extra. Keys records the wire order so a record posted back to the
// backend looks the way it arrived.
type TransactionRecord struct {
	SggCd            string
	UmdCd            string
	LandCd           string
	Bonbun           string
	Bubun            string
	RoadNm           string
	RoadNmSggCd      string
	RoadNmCd         string
	RoadNmSeq        string
	RoadNmbCd        string
	RoadNmBonbun     string
	RoadNmBubun      string
	UmdNm            string
	AptNm            string
	Jibun            string
	ExcluUseAr       string
	DealYear         string
	DealMonth        string
	DealDay          string
	DealAmount       string
	Floor            string
	BuildYear        string
	AptSeq           string
	CdealType        string
	CdealDay         string
	DealingGbn       string
	EstateAgentSggNm string
	RgstDate         string
	AptDong          string
	SlerGbn          string
	BuyerGbn         string
	LandLeaseholdGbn string

	// Extra holds fields outside the known set, undecoded.
	Extra map[string]json.RawMessage

	// Keys is the wire key order. Empty for records built in code.
	Keys []string

	// raw keeps the original encoding of known fields so numbers stay numbers.
	raw map[string]json.RawMessage
}

// field returns a pointer to the typed field for key, or nil.
func (r *TransactionRecord) field(key string) *string {
	switch key {
	case KeySggCd:
		return &r.SggCd
	case KeyUmdCd:
		return &r.UmdCd
	case KeyLandCd:
		return &r.LandCd
	case KeyBonbun:
		return &r.Bonbun
	case KeyBubun:
		return &r.Bubun
	case KeyRoadNm:
		return &r.RoadNm
	case KeyRoadNmSggCd:
		return &r.RoadNmSggCd
	case KeyRoadNmCd:
		return &r.RoadNmCd
	case KeyRoadNmSeq:
		return &r.RoadNmSeq
	case KeyRoadNmbCd:
		return &r.RoadNmbCd
	case KeyRoadNmBonbun:
		return &r.RoadNmBonbun
	case KeyRoadNmBubun:
		return &r.RoadNmBubun
	case KeyUmdNm:
		return &r.UmdNm
	case KeyAptNm:
		return &r.AptNm
	case KeyJibun:
		return &r.Jibun
	case KeyExcluUseAr:
		return &r.ExcluUseAr
	case KeyDealYear:
		return &r.DealYear
	case KeyDealMonth:
		return &r.DealMonth
	case KeyDealDay:
		return &r.DealDay
	case KeyDealAmount:
		return &r.DealAmount
	case KeyFloor:
		return &r.Floor
	case KeyBuildYear:
		return &r.BuildYear
	case KeyAptSeq:
		return &r.AptSeq
	case KeyCdealType:
		return &r.CdealType
	case KeyCdealDay:
		return &r.CdealDay
	case KeyDealingGbn:
		return &r.DealingGbn
	case KeyEstateAgentSggNm:
		return &r.EstateAgentSggNm
	case KeyRgstDate:
		return &r.RgstDate
	case KeyAptDong:
		return &r.AptDong
	case KeySlerGbn:
		return &r.SlerGbn
	case KeyBuyerGbn:
		return &r.BuyerGbn
	case KeyLandLeaseholdGbn:
		return &r.LandLeaseholdGbn
	}
	return nil
}

// Get returns the display text of key, looking in typed fields then Extra.
func (r *TransactionRecord) Get(key string) (string, bool) {
	if f := r.field(key); f != nil {
		if *f == "" && !r.hasKey(key) {
			return "", false
		}
		return *f, true
	}
	raw, ok := r.Extra[key]
	if !ok {
		return "", false
	}
	return rawText(raw), true
}

// Set assigns key, storing it in a typed field when known.
func (r *TransactionRecord) Set(key, value string) {
	if len(r.Keys) == 0 {
		r.Keys = r.FieldKeys()
	}
	if !r.hasKey(key) {
		r.Keys = append(r.Keys, key)
	}
	if f := r.field(key); f != nil {
		*f = value
		delete(r.raw, key)
		return
	}
	if r.Extra == nil {
		r.Extra = make(map[string]json.RawMessage)
	}
	encoded, _ := json.Marshal(value)
	r.Extra[key] = encoded
}

func (r *TransactionRecord) hasKey(key string) bool {
	for _, k := range r.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// FieldKeys returns the record's key set in wire order. Records built
// in code report their non-empty known fields followed by Extra keys.
func (r *TransactionRecord) FieldKeys() []string {
	if len(r.Keys) > 0 {
		return append([]string(nil), r.Keys...)
	}
	keys := make([]string, 0, len(knownKeys)+len(r.Extra))
	for _, k := range knownKeys {
		if *r.field(k) != "" {
			keys = append(keys, k)
		}
	}
	for k := range r.Extra {
		keys = append(keys, k)
	}
	return keys
}

// UnmarshalJSON decodes a wire record. Strings, numbers and booleans are
// accepted for known fields; null leaves the field empty.
func (r *TransactionRecord) UnmarshalJSON(data []byte) error {
	rec := TransactionRecord{}
	err := walkObject(data, func(key string, raw json.RawMessage) error {
		rec.Keys = append(rec.Keys, key)
		if f := rec.field(key); f != nil {
			*f = rawText(raw)
			if rec.raw == nil {
				rec.raw = make(map[string]json.RawMessage)
			}
			rec.raw[key] = raw
			return nil
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]json.RawMessage)
		}
		rec.Extra[key] = raw
		return nil
	})
	if err != nil {
		return fmt.Errorf("decode transaction record: %w", err)
	}
	*r = rec
	return nil
}

// MarshalJSON encodes the record in wire order. Known fields keep their
// original encoding unless changed with Set.
func (r TransactionRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.FieldKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		if raw, ok := r.raw[key]; ok {
			buf.Write(raw)
			continue
		}
		if f := r.field(key); f != nil {
			v, err := json.Marshal(*f)
			if err != nil {
				return nil, err
			}
			buf.Write(v)
			continue
		}
		if raw, ok := r.Extra[key]; ok {
			buf.Write(raw)
			continue
		}
		buf.WriteString("null")
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Year returns the deal year, falling back to the derived backend keys.
func (r *TransactionRecord) Year() string {
	if y := strings.TrimSpace(r.DealYear); y != "" {
		return y
	}
	if y, ok := r.Get(altKeyDealYear); ok && strings.TrimSpace(y) != "" {
		return strings.TrimSpace(y)
	}
	if d, ok := r.Get(altKeyDateKR); ok && len(d) >= 4 {
		return d[:4]
	}
	return ""
}

// Month returns the deal month, zero-padded to two digits.
func (r *TransactionRecord) Month() string {
	m := strings.TrimSpace(r.DealMonth)
	if m == "" {
		if alt, ok := r.Get(altKeyDealMonth); ok {
			m = strings.TrimSpace(alt)
		}
	}
	if m == "" {
		if d, ok := r.Get(altKeyDateKR); ok && len(d) >= 7 && d[4] == '-' {
			m = d[5:7]
		}
	}
	if m == "" {
		return ""
	}
	if n, err := strconv.ParseFloat(m, 64); err == nil {
		return fmt.Sprintf("%02d", int(n))
	}
	if len(m) == 1 {
		return "0" + m
	}
	return m
}

// YearMonth returns the "YYYY-MM" label or "" if either part is missing.
func (r *TransactionRecord) YearMonth() string {
	y, m := r.Year(), r.Month()
	if y == "" || m == "" {
		return ""
	}
	return y + "-" + m
}

// AmountText returns the raw deal amount text in 만원.
func (r *TransactionRecord) AmountText() string {
	if a := strings.TrimSpace(r.DealAmount); a != "" {
		return a
	}
	for _, key := range []string{altKeyDealAmount, altKeyAmountKR} {
		if a, ok := r.Get(key); ok && strings.TrimSpace(a) != "" {
			return a
		}
	}
	return ""
}

// Amount parses the deal amount, stripping thousands separators.
// ok is false when the amount is missing or not a number.
func (r *TransactionRecord) Amount() (float64, bool) {
	return ParseAmount(r.AmountText())
}

// ApartmentName returns the apartment name, with the Korean-key fallback.
func (r *TransactionRecord) ApartmentName() string {
	if r.AptNm != "" {
		return r.AptNm
	}
	name, _ := r.Get(altKeyAptKR)
	return name
}

// RoadName returns the road name, with the Korean-key fallback.
func (r *TransactionRecord) RoadName() string {
	if r.RoadNm != "" {
		return r.RoadNm
	}
	road, _ := r.Get(altKeyRoadKR)
	return road
}

// Cancelled reports whether the deal carries a cancellation marker.
func (r *TransactionRecord) Cancelled() bool {
	t := strings.TrimSpace(r.CdealType)
	return t != "" && t != "-"
}

// ParseAmount strips thousands separators and whitespace and parses the rest.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// rawText renders a JSON scalar as display text. Strings are unquoted,
// null becomes empty, anything else is kept verbatim.
func rawText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}
