package dto

import "time"

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message" example:"Aluno removido com sucesso"`
}

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	TotalPages  int   `json:"totalPages" example:"3"`
	PageSize    int   `json:"pageSize" example:"10"`
	TotalItems  int64 `json:"totalItems" example:"25"`
}

// ServiceInfo is returned by the root endpoint
type ServiceInfo struct {
	Name    string `json:"name" example:"gymapp-api"`
	Version string `json:"version" example:"1.0.0"`
	Status  string `json:"status" example:"running"`
}

// HealthResponse is returned by the liveness probe
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp"`
}
