package utils

import (
	"math"
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Round2 rounds x to 2 decimal places (banking-style simple round).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// SafeAmount coerces an arbitrary value into a finite monetary amount.
// Accepts nil, numbers and strings, including the Brazilian currency
// format ("R$ 1.234,56" -> 1234.56). Anything that cannot be parsed
// yields def; silent corrections are logged so bad input is traceable.
// Every money-bearing field must pass through here before arithmetic,
// so no NaN/Inf ever reaches a persisted record or a running total.
func SafeAmount(value any, def float64) float64 {
	switch v := value.(type) {
	case nil:
		return def
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			log.Warn().Float64("default", def).Msg("non-finite amount corrected")
			return def
		}
		return v
	case float32:
		return SafeAmount(float64(v), def)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return safeAmountString(v, def)
	default:
		log.Warn().Interface("value", value).Msg("unsupported amount type corrected")
		return def
	}
}

func safeAmountString(s string, def float64) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "null" || trimmed == "undefined" {
		return def
	}

	cleaned := strings.NewReplacer("R$", "", " ", "", "\u00a0", "").Replace(trimmed)
	// Decimal comma means any dots are thousands separators.
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		log.Warn().Str("value", s).Float64("default", def).Msg("unparseable amount corrected")
		return def
	}
	return d.InexactFloat64()
}

// SumSafe adds values through SafeAmount with a zero default.
func SumSafe(values ...any) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(SafeAmount(v, 0)))
	}
	return total.InexactFloat64()
}

// NormalizeMoneyDTO walks a pointer-to-struct DTO, trimming string fields and
// rounding float64 fields to 2 decimals. Pointer fields are only touched when
// non-nil, so partial-update DTOs keep their "absent" semantics for GORM.
func NormalizeMoneyDTO(dto any) {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr {
		return
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if f.Kind() == reflect.Ptr {
			if f.IsNil() {
				continue
			}
			f = f.Elem()
		}
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Float64:
			f.SetFloat(Round2(f.Float()))
		}
	}
}
