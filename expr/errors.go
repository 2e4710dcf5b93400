package expr

import (
	"errors"
	"fmt"

	"github.com/woojinnn/gluesql/sql"
)

var (
	ErrColumnNotFound = errors.New("expr: column not found")
	ErrDivideByZero   = errors.New("expr: division by zero")
)

// ContextError is returned when an aggregate function is evaluated where no aggregate
// results are bound.
type ContextError struct {
	Name sql.Identifier
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("expr: aggregate function \"%s\" used in scalar context", e.Name)
}

func columnNotFound(r Ref) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, r)
}
