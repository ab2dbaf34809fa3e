package db

import "testing"

func TestLimitOffsetWindows(t *testing.T) {
	clause, args := LimitOffset(3, 20, 40)
	if clause != ` LIMIT $3 OFFSET $4` {
		t.Errorf("clause = %q", clause)
	}
	if len(args) != 2 || args[0] != 20 || args[1] != 40 {
		t.Errorf("args = %v", args)
	}
}

func TestLimitOffsetZeroMeansAllRows(t *testing.T) {
	clause, args := LimitOffset(1, 0, 0)
	if clause != "" || args != nil {
		t.Errorf("limit 0 must not window the query: clause=%q args=%v", clause, args)
	}
	clause, args = LimitOffset(1, -5, 10)
	if clause != "" || args != nil {
		t.Errorf("negative limit must not window the query: clause=%q args=%v", clause, args)
	}
}
