package car

import (
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func validInput() types.CarInput {
	return types.CarInput{
		Brand:   "Toyota",
		Model:   "Camry",
		Year:    intPtr(2018),
		Price:   floatPtr(1650000),
		Mileage: intPtr(89000),
		Color:   "Black",
		VIN:     "jtnb11hk8j3001234",
	}
}

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  types.ListCarsParams
	}{
		{"Defaults", "", types.ListCarsParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"}},
		{"PageZero", "page=0", types.ListCarsParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"}},
		{"NegativePage", "page=-4", types.ListCarsParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"}},
		{"NonNumeric", "page=abc&limit=xyz", types.ListCarsParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"}},
		{"TrailingGarbage", "page=2abc&limit=5x", types.ListCarsParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"}},
		{"MaxIntPage", "page=9223372036854775807&limit=100", types.ListCarsParams{Page: MaxPage, Limit: 100, SortBy: "createdAt", SortOrder: "desc"}},
		{"LimitTooLarge", "limit=500", types.ListCarsParams{Page: 1, Limit: 100, SortBy: "createdAt", SortOrder: "desc"}},
		{"LimitZero", "limit=0", types.ListCarsParams{Page: 1, Limit: 1, SortBy: "createdAt", SortOrder: "desc"}},
		{"UnknownSort", "sortBy=password&sortOrder=sideways", types.ListCarsParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"}},
		{"Explicit", "page=3&limit=25&search=toy&sortBy=price&sortOrder=asc", types.ListCarsParams{Page: 3, Limit: 25, Search: "toy", SortBy: "price", SortOrder: "asc"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ParseListParams(q))
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{30, 7, 5},
		{100, 1, 100},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, TotalPages(tc.total, tc.limit), "total=%d limit=%d", tc.total, tc.limit)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(types.ListCarsParams{Page: 1, Limit: 10}))
	assert.Equal(t, 40, Offset(types.ListCarsParams{Page: 3, Limit: 20}))
	assert.Equal(t, math.MaxInt, Offset(types.ListCarsParams{Page: math.MaxInt, Limit: 20}))

	p := NormalizeListParams(types.ListCarsParams{Page: math.MaxInt, Limit: 1000})
	assert.Positive(t, Offset(p))
}

func TestValidateCarInput(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Valid", func(t *testing.T) {
		car, err := ValidateCarInput(validInput(), now)
		require.NoError(t, err)
		assert.Equal(t, "JTNB11HK8J3001234", car.VIN)
		assert.Equal(t, "Toyota", car.Brand)
		assert.Equal(t, 2018, car.Year)
	})

	t.Run("ZeroMileageIsPresent", func(t *testing.T) {
		in := validInput()
		in.Mileage = intPtr(0)
		_, err := ValidateCarInput(in, now)
		assert.NoError(t, err)
	})

	t.Run("NextYearAllowed", func(t *testing.T) {
		in := validInput()
		in.Year = intPtr(2026)
		_, err := ValidateCarInput(in, now)
		assert.NoError(t, err)
	})

	t.Run("VINLengthCountsCharacters", func(t *testing.T) {
		in := validInput()
		in.VIN = "ätnb11hk8j3001234"
		car, err := ValidateCarInput(in, now)
		require.NoError(t, err)
		assert.Equal(t, "ÄTNB11HK8J3001234", car.VIN)
	})

	tests := []struct {
		name   string
		mutate func(*types.CarInput)
		msg    string
	}{
		{"MissingBrand", func(in *types.CarInput) { in.Brand = "" }, MsgFieldsRequired},
		{"MissingYear", func(in *types.CarInput) { in.Year = nil }, MsgFieldsRequired},
		{"MissingPrice", func(in *types.CarInput) { in.Price = nil }, MsgFieldsRequired},
		{"MissingMileage", func(in *types.CarInput) { in.Mileage = nil }, MsgFieldsRequired},
		{"MissingVIN", func(in *types.CarInput) { in.VIN = "" }, MsgFieldsRequired},
		{"ShortVIN", func(in *types.CarInput) { in.VIN = "ABC" }, MsgVINLength},
		{"LongVIN", func(in *types.CarInput) { in.VIN = "JTNB11HK8J30012345" }, MsgVINLength},
		{"YearTooOld", func(in *types.CarInput) { in.Year = intPtr(1899) }, "year must be between 1900 and 2026"},
		{"YearTooNew", func(in *types.CarInput) { in.Year = intPtr(2027) }, "year must be between 1900 and 2026"},
		{"ZeroPrice", func(in *types.CarInput) { in.Price = floatPtr(0) }, MsgPricePositive},
		{"NegativePrice", func(in *types.CarInput) { in.Price = floatPtr(-1) }, MsgPricePositive},
		{"NegativeMileage", func(in *types.CarInput) { in.Mileage = intPtr(-1) }, MsgMileageNegative},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := ValidateCarInput(in, now)
			assert.ErrorIs(t, err, types.ErrValidation)
			assert.EqualError(t, err, tc.msg)
		})
	}
}
