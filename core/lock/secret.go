package lock

import (
	"errors"
	"fmt"
)

// ErrInvalidSecret is returned for secrets that no gesture could express.
var ErrInvalidSecret = errors.New("invalid secret")

// DefaultSecret is used when the host never calls SetSecret.
const DefaultSecret = "5236"

// ValidateSecret rejects empty secrets and characters outside '1'..'9'.
// Repeated digits and unusual lengths are accepted; such secrets just never
// match a gesture.
func ValidateSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSecret)
	}
	for i, r := range secret {
		if r < '1' || r > '9' {
			return fmt.Errorf("%w: %q at position %d is not a grid index", ErrInvalidSecret, r, i)
		}
	}
	return nil
}
