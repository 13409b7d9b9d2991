package apperrors

import "errors"

// Error categories. Every error a service returns wraps exactly one of them;
// the HTTP layer maps the category to a status code.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	ErrGateway           = errors.New("payment gateway error")
	ErrRateLimited       = errors.New("too many requests")
	ErrExhaustedKeyspace = errors.New("exhausted keyspace")
)

// Error codes sent to clients next to the message
const (
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeTaxIDRequired        = "CPF_REQUIRED"
	CodeNotSubscribed        = "NOT_SUBSCRIBED"
	CodeSubscriptionNotFound = "SUBSCRIPTION_NOT_FOUND"
	CodeStudentLimitReached  = "STUDENT_LIMIT_REACHED"
	CodeAccessCodeExhausted  = "ACCESS_CODE_EXHAUSTED"
	CodeGateway              = "GATEWAY_ERROR"
	CodeTooManyAttempts      = "TOO_MANY_ATTEMPTS"
)

// Authentication
var (
	ErrWrongCredentials   = NewCustomError(ErrInvalidCredentials, "Email ou senha incorretos")
	ErrInvalidAccessCode  = NewCustomError(ErrInvalidCredentials, "Código de acesso inválido")
	ErrWrongPassword      = NewCustomError(ErrInvalidCredentials, "Senha atual incorreta")
	ErrMissingToken       = NewCustomError(ErrUnauthenticated, "Token não fornecido")
	ErrInvalidToken       = NewCustomError(ErrTokenInvalid, "Token inválido")
	ErrAccessDenied       = NewCustomError(ErrPermissionDenied, "Acesso negado")
	ErrInvalidWebhookAuth = NewCustomError(ErrUnauthenticated, "Webhook não autorizado")
	ErrTooManyAttempts    = NewCustomError(ErrRateLimited, "Muitas tentativas, aguarde um minuto").WithCode(CodeTooManyAttempts)
	ErrEmailAlreadyExists = NewConflictError("Email já cadastrado")
)

// Resources
var (
	ErrTrainerNotFound  = NewResourceNotFoundError("Personal não encontrado")
	ErrStudentNotFound  = NewResourceNotFoundError("Aluno não encontrado")
	ErrWorkoutNotFound  = NewResourceNotFoundError("Treino não encontrado")
	ErrProgressNotFound = NewResourceNotFoundError("Registro de progresso não encontrado")
)

// Students
var (
	ErrStudentLimitReached = NewForbiddenError("Limite de alunos do seu plano atingido").WithCode(CodeStudentLimitReached)
	ErrAccessCodeExhausted = NewCustomError(ErrExhaustedKeyspace, "Não foi possível gerar um código de acesso único").WithCode(CodeAccessCodeExhausted)
)

// Subscription
var (
	ErrTaxIDRequired        = NewBadRequestError("Cadastre seu CPF no perfil antes de assinar o plano PRO").WithCode(CodeTaxIDRequired)
	ErrNotSubscribed        = NewBadRequestError("Você não possui uma assinatura PRO ativa").WithCode(CodeNotSubscribed)
	ErrSubscriptionNotFound = NewResourceNotFoundError("Assinatura não encontrada").WithCode(CodeSubscriptionNotFound)
)

// NewResourceNotFoundError creates a not-found error with a client message
func NewResourceNotFoundError(message string) *CustomError {
	return NewCustomError(ErrResourceNotFound, message)
}

// NewConflictError creates a conflict error with a client message
func NewConflictError(message string) *CustomError {
	return NewCustomError(ErrConflict, message)
}

// NewForbiddenError creates a permission error with a client message
func NewForbiddenError(message string) *CustomError {
	return NewCustomError(ErrPermissionDenied, message)
}

// NewBadRequestError creates a bad request error with a client message
func NewBadRequestError(message string) *CustomError {
	return NewCustomError(ErrBadRequest, message)
}

// NewValidationError creates a validation error with a client message
func NewValidationError(message string) *CustomError {
	return NewCustomError(ErrValidationFailed, message).WithCode(CodeValidationFailed)
}

// NewGatewayError wraps a payment gateway failure. The cause is kept for logs only.
func NewGatewayError(cause error) *CustomError {
	return &CustomError{
		Err:     ErrGateway,
		Message: "Falha na comunicação com o gateway de pagamento",
		Code:    CodeGateway,
		Cause:   cause,
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// CustomError carries a category, a client-facing message and an optional code
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details interface{}
	// Cause is the underlying failure, logged but never sent to clients
	Cause error
}

// Error implements error interface
func (e *CustomError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "unknown error"
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the category and the cause to errors.Is / errors.As
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewCustomError creates a CustomError with underlying category
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithCode sets the client error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithDetails sets additional client-facing details
func (e *CustomError) WithDetails(details interface{}) *CustomError {
	e.Details = details
	return e
}
