package offers

import (
	"errors"
	"fmt"
)

// Lookup errors surfaced as 404-equivalents.
var (
	// ErrOfferNotFound indicates the offer id or UUID does not resolve.
	ErrOfferNotFound = errors.New("offer not found")
	// ErrRedemptionNotFound indicates no redemption matches the lookup.
	ErrRedemptionNotFound = errors.New("redemption not found")
)

// ErrMerchantMismatch indicates a verifier acted on another merchant's redemption.
var ErrMerchantMismatch = errors.New("redemption belongs to another merchant")

// InvalidArgumentError reports a malformed or inconsistent request shape.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e == nil {
		return ""
	}
	return e.Reason
}

// InvalidStateError reports a business-rule rejection with a user-facing reason.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	if e == nil {
		return ""
	}
	return e.Reason
}

// IsInvalidArgument reports whether err carries an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}

// IsInvalidState reports whether err carries an InvalidStateError.
func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

func invalidArgumentf(format string, args ...any) error {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}

func invalidState(reason string) error {
	return &InvalidStateError{Reason: reason}
}
