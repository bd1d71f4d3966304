package car

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

const (
	DefaultPage      = 1
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"

	// MaxPage keeps (page-1)*limit within int.
	MaxPage = math.MaxInt / MaxLimit

	VINLength = 17
	MinYear   = 1900

	MsgFieldsRequired  = "all fields are required"
	MsgVINLength       = "VIN must be exactly 17 characters"
	MsgPricePositive   = "price must be greater than 0"
	MsgMileageNegative = "mileage cannot be negative"
	MsgVINTaken        = "car with this VIN already exists"
	MsgVINTakenOther   = "another car with this VIN already exists"
	MsgCarNotFound     = "car not found"
	MsgCarDeleted      = "car deleted"
)

// SortColumns maps the accepted sortBy values onto table columns.
var SortColumns = map[string]string{
	"id":        "id",
	"brand":     "brand",
	"model":     "model",
	"year":      "year",
	"price":     "price",
	"mileage":   "mileage",
	"color":     "color",
	"vin":       "vin",
	"createdAt": "created_at",
}

// ParseListParams reads the listing query string. Numbers that do not parse fall back to defaults.
func ParseListParams(q url.Values) types.ListCarsParams {
	p := types.ListCarsParams{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	if v, err := strconv.Atoi(strings.TrimSpace(q.Get("page"))); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(q.Get("limit"))); err == nil {
		p.Limit = v
	}
	return NormalizeListParams(p)
}

// NormalizeListParams clamps paging and replaces unknown sort settings with the defaults.
func NormalizeListParams(p types.ListCarsParams) types.ListCarsParams {
	switch {
	case p.Page < 1:
		p.Page = 1
	case p.Page > MaxPage:
		p.Page = MaxPage
	}
	switch {
	case p.Limit < 1:
		p.Limit = 1
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	if _, ok := SortColumns[p.SortBy]; !ok {
		p.SortBy = DefaultSortBy
	}
	if p.SortOrder != "asc" {
		p.SortOrder = DefaultSortOrder
	}
	return p
}

// Offset is the number of rows skipped before the requested page. It saturates at math.MaxInt.
func Offset(p types.ListCarsParams) int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ValidateCarInput checks a create or update payload and returns the car to store.
// Numeric fields are only missing when absent; zero is checked by the range rules.
func ValidateCarInput(in types.CarInput, now time.Time) (types.Car, error) {
	if in.Brand == "" || in.Model == "" || in.Color == "" || in.VIN == "" ||
		in.Year == nil || in.Price == nil || in.Mileage == nil {
		return types.Car{}, types.NewValidationError(MsgFieldsRequired)
	}
	if utf8.RuneCountInString(in.VIN) != VINLength {
		return types.Car{}, types.NewValidationError(MsgVINLength)
	}
	maxYear := now.Year() + 1
	if *in.Year < MinYear || *in.Year > maxYear {
		return types.Car{}, types.NewValidationError("year must be between %d and %d", MinYear, maxYear)
	}
	if *in.Price <= 0 {
		return types.Car{}, types.NewValidationError(MsgPricePositive)
	}
	if *in.Mileage < 0 {
		return types.Car{}, types.NewValidationError(MsgMileageNegative)
	}

	return types.Car{
		Brand:   in.Brand,
		Model:   in.Model,
		Year:    *in.Year,
		Price:   *in.Price,
		Mileage: *in.Mileage,
		Color:   in.Color,
		VIN:     NormalizeVIN(in.VIN),
	}, nil
}

// NormalizeVIN is the stored and compared form of a VIN.
func NormalizeVIN(vin string) string {
	return strings.ToUpper(vin)
}
