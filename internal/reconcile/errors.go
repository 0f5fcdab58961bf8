package reconcile

import (
	"errors"
	"fmt"
)

// ErrMissingSecret is returned before any fetch when no Stripe secret is configured
var ErrMissingSecret = errors.New("please set your Stripe secret key first")

// FetchError wraps a failed read from the billing platform or another collaborator
// during a rebuild. The rebuild is aborted and nothing is cached.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err carries a FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
