package types

// Pagination describes the page returned by a listing endpoint.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Success    bool        `json:"success" example:"true"`
	Data       any         `json:"data,omitempty"`
	Error      string      `json:"error,omitempty" example:"car not found"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
