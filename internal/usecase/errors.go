package usecase

// Error codes shared by handlers when mapping to HTTP statuses.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeStorage       = "STORAGE_ERROR"
	CodeUpstream      = "UPSTREAM_ERROR"
)

// DomainError is a business-rule failure safe to show to the caller.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError is an infrastructure failure. The caller gets the generic
// Message; the underlying cause stays in the server log.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
