package annotate

import (
	"errors"
	"fmt"

	"github.com/Benny93/vocab-go/internal/profile"
)

// ErrFocusNotFound is matched by every missing-focus error.
var ErrFocusNotFound = errors.New("focus entity not found")

// MissingFocusError reports a source graph with no subject of the
// requested kind.
type MissingFocusError struct {
	Kind profile.Kind
}

func (e *MissingFocusError) Error() string {
	return fmt.Sprintf("No %s found in source", e.Kind.TypeName())
}

func (e *MissingFocusError) Unwrap() error { return ErrFocusNotFound }
