package db

import "fmt"

// LimitOffset renders a LIMIT/OFFSET clause with placeholders starting at idx.
// A non-positive limit means the caller wants every matching row (exports and
// report builders pass 0) and yields an empty clause.
func LimitOffset(idx, limit, offset int) (string, []interface{}) {
	if limit <= 0 {
		return "", nil
	}
	return fmt.Sprintf(` LIMIT $%d OFFSET $%d`, idx, idx+1), []interface{}{limit, offset}
}
