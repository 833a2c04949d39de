package usecase

import "errors"

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeTransport     = "TRANSPORT_ERROR"
	CodeStore         = "STORE_ERROR"
)

// DomainError is caused by the request itself and is never retried as-is.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an operational failure: store, transport or configuration.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func IsValidationError(err error) bool    { return hasCode(err, CodeValidation) }
func IsNotFound(err error) bool           { return hasCode(err, CodeNotFound) }
func IsConfigurationError(err error) bool { return hasCode(err, CodeConfiguration) }
func IsTransportError(err error) bool     { return hasCode(err, CodeTransport) }
func IsStoreError(err error) bool         { return hasCode(err, CodeStore) }

func hasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

func storeError(message string, err error) error {
	return &TechnicalError{Code: CodeStore, Message: message, Err: err}
}
