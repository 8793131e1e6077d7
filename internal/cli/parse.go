package cli

import (
	"strconv"
	"strings"

	apperrors "github.com/lfernandes/caixa/internal/errors"
)

// ParseQuantity parses a strictly positive integer quantity.
func ParseQuantity(input string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInvalidInput, "quantity must be a whole number", err)
	}
	if value <= 0 {
		return 0, apperrors.New(apperrors.CodeInvalidInput, "quantity must be greater than zero")
	}
	return value, nil
}

// ParseStockLevel parses a non-negative integer on-hand quantity. Zero is
// a valid stock level for an out-of-stock product.
func ParseStockLevel(input string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInvalidInput, "stock level must be a whole number", err)
	}
	if value < 0 {
		return 0, apperrors.New(apperrors.CodeInvalidInput, "stock level must not be negative")
	}
	return value, nil
}

// ParseAmount parses a non-negative decimal amount. It accepts a comma as
// decimal separator since cashiers type both.
func ParseAmount(input string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInvalidInput, "amount must be a number", err)
	}
	if value < 0 {
		return 0, apperrors.New(apperrors.CodeInvalidInput, "amount must not be negative")
	}
	return value, nil
}
