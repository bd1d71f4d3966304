package types

import "time"

// Car is a vehicle in the catalog. VIN is stored upper-cased.
type Car struct {
	ID        int64     `json:"id" example:"1"`
	Brand     string    `json:"brand" example:"Toyota"`
	Model     string    `json:"model" example:"Camry"`
	Year      int       `json:"year" example:"2018"`
	Price     float64   `json:"price" example:"1650000"`
	Mileage   int       `json:"mileage" example:"89000"`
	Color     string    `json:"color" example:"Black"`
	VIN       string    `json:"vin" example:"JTNB11HK8J3001234"`
	CreatedAt time.Time `json:"createdAt"`
}

// CarInput is the body of POST /api/cars and PUT /api/cars/{id}.
// Numeric fields are pointers so that an absent field can be told apart from zero.
type CarInput struct {
	Brand   string   `json:"brand"`
	Model   string   `json:"model"`
	Year    *int     `json:"year"`
	Price   *float64 `json:"price"`
	Mileage *int     `json:"mileage"`
	Color   string   `json:"color"`
	VIN     string   `json:"vin"`
}

// ListCarsParams are the raw listing parameters after normalization.
type ListCarsParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

// CarPage is one page of a listing plus the total match count.
type CarPage struct {
	Cars       []Car
	Pagination Pagination
}

// DeleteCarResponse confirms a deletion.
type DeleteCarResponse struct {
	Message string `json:"message" example:"car deleted"`
}
