package entries

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCashAccount is returned by NewFactory when no cash account is configured.
	ErrMissingCashAccount = errors.New("cash account is required")
	// ErrMissingIncomeAccount is returned by NewFactory when none of the
	// sales, service or other income accounts is configured.
	ErrMissingIncomeAccount = errors.New("at least one income account is required")
	// ErrInvalidAmount is returned for non-positive amounts or breakdowns
	// that exceed the transaction amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrUnbalanced is returned when the generated lines do not balance.
	ErrUnbalanced = errors.New("journal entries do not balance")
	// ErrUnresolvedAccount is returned when a line has no account to post to.
	ErrUnresolvedAccount = errors.New("unresolved account")
)

// UnresolvedAccountError names the role that could not be resolved.
type UnresolvedAccountError struct {
	Kind Kind
	Role string
}

func (e *UnresolvedAccountError) Error() string {
	return fmt.Sprintf("%s: no %s account configured and no category given", e.Kind, e.Role)
}

func (e *UnresolvedAccountError) Unwrap() error {
	return ErrUnresolvedAccount
}
