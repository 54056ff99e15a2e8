package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
)

func TestIsDupKeyErr(t *testing.T) {
	if IsDupKeyErr(errors.New("some other error")) {
		t.Error("plain errors are not duplicate-key errors")
	}
	if IsDupKeyErr(nil) {
		t.Error("nil is not a duplicate-key error")
	}

	dup := sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintUnique,
	}
	if !IsDupKeyErr(dup) {
		t.Error("unique-constraint violation not detected")
	}
	if !IsDupKeyErr(fmt.Errorf("insert: %w", dup)) {
		t.Error("wrapped violation not detected")
	}
}
