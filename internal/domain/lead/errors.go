package lead

import "errors"

var (
	// ErrLeadNotFound indicates the lead doesn't exist in the current snapshot.
	ErrLeadNotFound = errors.New("lead not found")
	// ErrInvalidStatus indicates an unknown pipeline status.
	ErrInvalidStatus = errors.New("invalid lead status")
	// ErrConversionRequired indicates a direct write to Won was attempted;
	// Won is only reachable through the conversion flow.
	ErrConversionRequired = errors.New("transition to won requires conversion")
	// ErrInvalidDate indicates an unparseable conversion date.
	ErrInvalidDate = errors.New("invalid date")
)
