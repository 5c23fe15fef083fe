package dao

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
)

func TestDuplicateKeyToConflict(t *testing.T) {
	// A wrapped unique-index violation surfaces as a conflict, the way
	// a duplicate registration or a racing double-like must.
	err := duplicateKeyToConflict(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "username taken")
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("duplicate key should map to conflict, got %v", err)
	}

	var appErr *model.AppError
	if !errors.As(err, &appErr) || appErr.StatusCode() != 409 {
		t.Errorf("conflict should map to 409, got %v", err)
	}

	// Any other error passes through untouched.
	boom := errors.New("connection reset")
	if got := duplicateKeyToConflict(boom, "username taken"); got != boom {
		t.Errorf("unrelated error should pass through, got %v", got)
	}
	if duplicateKeyToConflict(nil, "username taken") != nil {
		t.Error("nil error should stay nil")
	}
}
