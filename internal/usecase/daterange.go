package usecase

import (
	"StockDash/internal/domain/models"
	"StockDash/pkg/util"
)

// NormalizeDate turns a raw date-picker value into YYYY-MM-DD. Anything it
// cannot parse becomes "" (unset); the caller only finds out at submit.
func NormalizeDate(raw string) string {
	return util.NormalizeDate(raw)
}

// NormalizeRange normalizes both bounds independently. No from/to ordering is
// enforced here.
func NormalizeRange(fromRaw, toRaw string) models.DateRange {
	return models.DateRange{From: NormalizeDate(fromRaw), To: NormalizeDate(toRaw)}
}
