package dto

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string      `json:"error" example:"Aluno não encontrado"`
	Code    string      `json:"code,omitempty" example:"CPF_REQUIRED"`
	Details interface{} `json:"details,omitempty"`
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field" example:"email"`
	Message string `json:"message" example:"email must be a valid email address"`
}

// NewErrorResponse creates an error body
func NewErrorResponse(message, code string) ErrorResponse {
	return ErrorResponse{Error: message, Code: code}
}
