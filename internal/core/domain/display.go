package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MonthlyAverage is one point of the price-trend chart.
type MonthlyAverage struct {
	// Month is the "YYYY-MM" label.
	Month string

	// Average is the mean deal amount in 만원 over parsable rows.
	Average float64

	// Count is the number of rows that contributed to Average.
	Count int
}

// Column is one table column.
type Column struct {
	Key   string
	Label string
}

// ColumnPolicy selects how display columns are derived.
type ColumnPolicy int

const (
	// ColumnsDenyList shows every key except the redundant/derived ones.
	ColumnsDenyList ColumnPolicy = iota
	// ColumnsAllowList shows only keys with a known label.
	ColumnsAllowList
)

// HiddenColumns are redundant codes and backend-derived copies never shown in tables.
var HiddenColumns = map[string]bool{
	KeySggCd:         true,
	KeyUmdCd:         true,
	KeyLandCd:        true,
	KeyBonbun:        true,
	KeyBubun:         true,
	KeyRoadNmSggCd:   true,
	KeyRoadNmCd:      true,
	KeyRoadNmSeq:     true,
	KeyRoadNmbCd:     true,
	KeyRoadNmBonbun:  true,
	KeyRoadNmBubun:   true,
	KeyAptSeq:        true,
	altKeyDealYear:   true,
	altKeyDealMonth:  true,
	altKeyDealAmount: true,
}

// ColumnLabels maps wire keys to localized table headers.
var ColumnLabels = map[string]string{
	KeyAptNm:            "아파트",
	KeyDealAmount:       "거래금액(만원)",
	KeyExcluUseAr:       "전용면적(m²)",
	KeyFloor:            "층",
	KeyBuildYear:        "건축년도",
	KeyDealYear:         "년",
	KeyDealMonth:        "월",
	KeyDealDay:          "일",
	KeyRoadNm:           "도로명",
	KeyUmdNm:            "법정동",
	KeyJibun:            "지번",
	KeyCdealType:        "해제여부",
	KeyCdealDay:         "해제사유발생일",
	KeyDealingGbn:       "거래유형",
	KeyEstateAgentSggNm: "중개사소재지",
	KeyRgstDate:         "등기일자",
	KeyAptDong:          "동",
	KeySlerGbn:          "매도자",
	KeyBuyerGbn:         "매수자",
	KeyLandLeaseholdGbn: "토지임대부",
	KeyLongitude:        "경도",
	KeyLatitude:         "위도",
	altKeyAmountKR:      "거래금액(만원)",
	altKeyDateKR:        "거래일",
	altKeyAptKR:         "아파트",
	altKeyRoadKR:        "도로명",
	"전용면적(m²)":          "전용면적(m²)",
	"층":                 "층",
	"건축년도":              "건축년도",
}

// FormatManwon renders an amount in 만원 the way listings do:
// 85000 → "8억 5,000만원", 9500 → "9,500만원". Fractions are rounded.
func FormatManwon(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	n := int64(math.Round(v))
	eok, rest := n/10000, n%10000

	switch {
	case eok > 0 && rest > 0:
		return fmt.Sprintf("%s%s억 %s만원", sign, groupThousands(eok), groupThousands(rest))
	case eok > 0:
		return fmt.Sprintf("%s%s억원", sign, groupThousands(eok))
	default:
		return fmt.Sprintf("%s%s만원", sign, groupThousands(rest))
	}
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
