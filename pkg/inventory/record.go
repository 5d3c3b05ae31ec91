package inventory

import (
	"strconv"
	"strings"
)

// Category classifies a part as factory-new or pulled from old stock.
type Category string

const (
	CategoryNew     Category = "new"
	CategoryOld     Category = "old"
	CategoryUnknown Category = "unknown"
)

// truthyTokens is the shared set of affirmative strings recognised for the
// Passport and Check columns. One set for both: the warehouse crews fill
// these cells the same sloppy way.
var truthyTokens = map[string]struct{}{
	"yes":     {},
	"y":       {},
	"true":    {},
	"1":       {},
	"да":      {},
	"ok":      {},
	"checked": {},
}

// IsTruthy reports whether v is one of the recognised affirmative tokens.
func IsTruthy(v string) bool {
	_, ok := truthyTokens[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// Record is one inventory row: a part and its stock status. Normalized is a
// cache derived from PartNumber via Normalize, never an independent source
// of truth.
type Record struct {
	PartNumber   string   `json:"part_number"`
	Normalized   string   `json:"-"`
	Quantity     int      `json:"quantity"`
	Shelf        string   `json:"shelf"`
	Location     string   `json:"location"`
	HasPassport  bool     `json:"has_passport"`
	Category     Category `json:"category"`
	SerialNumber string   `json:"serial_number"`
	IsChecked    bool     `json:"is_checked"`
}

// newRecord derives a Record from raw cell values. Coercion is recovering:
// a malformed quantity becomes 0, an unrecognised category becomes
// CategoryUnknown. Returns false when the part number cell is empty.
func newRecord(part, qty, shelf, location, passport, category, serial, check string) (Record, bool) {
	part = strings.TrimSpace(part)
	if part == "" {
		return Record{}, false
	}
	return Record{
		PartNumber:   part,
		Normalized:   Normalize(part),
		Quantity:     parseQuantity(qty),
		Shelf:        strings.TrimSpace(shelf),
		Location:     strings.TrimSpace(location),
		HasPassport:  IsTruthy(passport),
		Category:     parseCategory(category),
		SerialNumber: strings.TrimSpace(serial),
		IsChecked:    IsTruthy(check),
	}, true
}

// parseQuantity coerces a raw cell to a non-negative count. Spreadsheets
// store counts as floats ("3.0") often enough that integers are parsed via
// float. Malformed or negative values coerce to 0.
func parseQuantity(v string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}

func parseCategory(v string) Category {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "new":
		return CategoryNew
	case "old":
		return CategoryOld
	default:
		return CategoryUnknown
	}
}
