package execute

import (
	"errors"
	"fmt"

	"github.com/woojinnn/gluesql/sql"
)

var (
	ErrNumberOfValuesDifferent = errors.New("execute: number of values different")
	ErrInvalidLimit            = errors.New("execute: LIMIT must be a non-negative integer")
	ErrInvalidOffset           = errors.New("execute: OFFSET must be a non-negative integer")
)

type TableAliasNotFoundError struct {
	Alias sql.Identifier
}

func (e *TableAliasNotFoundError) Error() string {
	return fmt.Sprintf("execute: table alias not found: %s", e.Alias)
}
