package http

import (
	"encoding/json"
	"net/http"
)

// PaginatedResponse wraps paginated data with metadata
type PaginatedResponse[T any] struct {
	Data       []T                `json:"data"`
	Pagination PaginationMetadata `json:"pagination"`
}

// PaginationMetadata contains pagination information
type PaginationMetadata struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalCount int  `json:"totalCount"`
	HasMore    bool `json:"hasMore"`
}

// SuccessResponse wraps a successful response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ListResponse wraps a list of items (non-paginated)
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Log the error but don't try to write again
		// The header has already been sent
	}
}

// WriteSuccess writes a success response
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

// WriteCreated writes a created response
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

// WriteNoContent writes a no content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WritePaginated writes a paginated response
func WritePaginated[T any](w http.ResponseWriter, data []T, page, pageSize, totalCount int) {
	hasMore := page*pageSize < totalCount

	response := PaginatedResponse[T]{
		Data: data,
		Pagination: PaginationMetadata{
			Page:       page,
			PageSize:   pageSize,
			TotalCount: totalCount,
			HasMore:    hasMore,
		},
	}

	WriteJSON(w, http.StatusOK, response)
}

// WriteList writes a simple list response
func WriteList[T any](w http.ResponseWriter, data []T) {
	response := ListResponse[T]{
		Data:  data,
		Count: len(data),
	}

	WriteJSON(w, http.StatusOK, response)
}
