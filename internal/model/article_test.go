package model

import "testing"

func TestStatusDelta(t *testing.T) {
	tests := []struct {
		oldStatus string
		newStatus string
		want      int
	}{
		{ArticleStatusPending, ArticleStatusApproved, 1},
		{ArticleStatusRejected, ArticleStatusApproved, 1},
		{ArticleStatusApproved, ArticleStatusRejected, -1},
		{ArticleStatusApproved, ArticleStatusPending, -1},
		{ArticleStatusApproved, ArticleStatusApproved, 0},
		{ArticleStatusPending, ArticleStatusRejected, 0},
		{ArticleStatusRejected, ArticleStatusPending, 0},
		{ArticleStatusPending, ArticleStatusPending, 0},
	}

	for _, tt := range tests {
		if got := StatusDelta(tt.oldStatus, tt.newStatus); got != tt.want {
			t.Errorf("StatusDelta(%s, %s) = %d, want %d", tt.oldStatus, tt.newStatus, got, tt.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{ArticleStatusPending, ArticleStatusApproved, ArticleStatusRejected} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false, want true", s)
		}
	}
	for _, s := range []string{"", "published", "Approved", "deleted"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}

func TestAppErrorKinds(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{NotFound("article %d not found", 7), 404},
		{InvalidInput("bad input"), 400},
		{Conflict("duplicate"), 409},
		{Internal("boom", nil), 500},
	}

	for _, tt := range tests {
		appErr, ok := tt.err.(*AppError)
		if !ok {
			t.Fatalf("expected *AppError, got %T", tt.err)
		}
		if got := appErr.StatusCode(); got != tt.wantStatus {
			t.Errorf("StatusCode() = %d, want %d", got, tt.wantStatus)
		}
	}

	if !IsNotFound(NotFound("gone")) {
		t.Error("IsNotFound should match not-found errors")
	}
	if IsNotFound(Conflict("taken")) {
		t.Error("IsNotFound should not match conflict errors")
	}
}
