// Package errors provides coded domain errors for the catalog and ledger.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Catalog errors
	CodeNotFound          Code = "NOT_FOUND"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"

	// Ledger errors
	CodeInsufficientPayment Code = "INSUFFICIENT_PAYMENT"
	CodeCommitFailed        Code = "COMMIT_FAILED"

	// Boundary errors
	CodeInvalidInput Code = "INVALID_INPUT"
)
