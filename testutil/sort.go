package testutil

import (
	"sort"

	"github.com/woojinnn/gluesql/sql"
)

// SortRows sorts rows in place by the listed columns; a negative column number -(n+1)
// sorts column n in descending order.
func SortRows(cols []int, rows []sql.Row) {
	sort.SliceStable(rows,
		func(i, j int) bool {
			for _, col := range cols {
				reverse := col < 0
				if reverse {
					col = -col - 1
				}
				cmp := sql.Compare(rows[i][col], rows[j][col])
				if cmp < 0 {
					return !reverse
				} else if cmp > 0 {
					return reverse
				}
			}
			return false
		})
}
