package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/auth"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
)

type registeringUserDAO struct {
	mockUserDAO
	createUserFn     func(ctx context.Context, user *model.User) error
	getUserByLoginFn func(ctx context.Context, login string) (*model.User, error)
}

func (m *registeringUserDAO) CreateUser(ctx context.Context, user *model.User) error {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	return nil
}
func (m *registeringUserDAO) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	if m.getUserByLoginFn != nil {
		return m.getUserByLoginFn(ctx, login)
	}
	return nil, model.NotFound("user not found")
}

func TestRegisterHashesPassword(t *testing.T) {
	var created *model.User
	userDAO := &registeringUserDAO{
		createUserFn: func(ctx context.Context, user *model.User) error {
			user.ID = 7
			created = user
			return nil
		},
	}
	svc := NewUserService(userDAO, logger.GetLogger())

	user, err := svc.Register(context.Background(), &RegisterParams{
		Username: "asha",
		Email:    "Asha@Example.com",
		Password: "s3cret-pass",
		Name:     "Asha R",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("user id = %d, want 7", user.ID)
	}
	if created.Email != "asha@example.com" {
		t.Errorf("email not normalized: %q", created.Email)
	}
	if created.PasswordHash == "s3cret-pass" || created.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if !created.PushEnabled {
		t.Error("new accounts should default to push enabled")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(&registeringUserDAO{}, logger.GetLogger())

	tests := []struct {
		name   string
		params RegisterParams
	}{
		{"missing username", RegisterParams{Email: "a@b.c", Password: "longenough"}},
		{"missing email", RegisterParams{Username: "asha", Password: "longenough"}},
		{"short password", RegisterParams{Username: "asha", Email: "a@b.c", Password: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), &tt.params); !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected invalid-input error, got %v", err)
			}
		})
	}
}

func TestRequestReporterRole(t *testing.T) {
	var filed *model.ReporterRequest
	userDAO := &mockUserDAO{
		getUserFn: func(ctx context.Context, userID int64) (*model.User, error) {
			return &model.User{ID: userID, Username: "asha", Role: model.RoleUser}, nil
		},
		createReporterRequestFn: func(ctx context.Context, req *model.ReporterRequest) error {
			req.ID = 3
			filed = req
			return nil
		},
	}
	svc := NewUserService(userDAO, logger.GetLogger())

	request, err := svc.RequestReporterRole(context.Background(), 7, "  local correspondent  ")
	if err != nil {
		t.Fatalf("RequestReporterRole: %v", err)
	}
	if request.ID != 3 || request.Status != model.RequestStatusPending {
		t.Errorf("request not filed as pending: %+v", request)
	}
	if filed.Reason != "local correspondent" {
		t.Errorf("reason not trimmed: %q", filed.Reason)
	}
}

func TestRequestReporterRoleAlreadyPublishing(t *testing.T) {
	for _, role := range []string{model.RoleReporter, model.RoleAdmin} {
		userDAO := &mockUserDAO{
			getUserFn: func(ctx context.Context, userID int64) (*model.User, error) {
				return &model.User{ID: userID, Role: role}, nil
			},
		}
		svc := NewUserService(userDAO, logger.GetLogger())

		if _, err := svc.RequestReporterRole(context.Background(), 7, ""); !errors.Is(err, model.ErrConflict) {
			t.Errorf("role %s: expected conflict, got %v", role, err)
		}
	}
}

func TestResolveReporterRequest(t *testing.T) {
	var gotApprove bool
	userDAO := &mockUserDAO{
		resolveReporterRequestFn: func(ctx context.Context, requestID int64, approve bool) (*model.ReporterRequest, error) {
			gotApprove = approve
			status := model.RequestStatusRejected
			if approve {
				status = model.RequestStatusApproved
			}
			return &model.ReporterRequest{ID: requestID, UserID: 7, Status: status}, nil
		},
	}
	svc := NewUserService(userDAO, logger.GetLogger())

	request, err := svc.ResolveReporterRequest(context.Background(), 3, true)
	if err != nil {
		t.Fatalf("ResolveReporterRequest: %v", err)
	}
	if !gotApprove || request.Status != model.RequestStatusApproved {
		t.Errorf("approval not applied: approve=%v status=%q", gotApprove, request.Status)
	}

	request, err = svc.ResolveReporterRequest(context.Background(), 4, false)
	if err != nil {
		t.Fatalf("ResolveReporterRequest reject: %v", err)
	}
	if gotApprove || request.Status != model.RequestStatusRejected {
		t.Errorf("rejection not applied: approve=%v status=%q", gotApprove, request.Status)
	}
}

func TestLogin(t *testing.T) {
	auth.Init("test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	userDAO := &registeringUserDAO{
		getUserByLoginFn: func(ctx context.Context, login string) (*model.User, error) {
			if login != "asha" {
				return nil, model.NotFound("user not found")
			}
			return &model.User{ID: 7, Username: "asha", Role: model.RoleUser, PasswordHash: string(hash)}, nil
		},
	}
	svc := NewUserService(userDAO, logger.GetLogger())

	user, token, err := svc.Login(context.Background(), "asha", "right-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != 7 || token == "" {
		t.Errorf("login result wrong: id=%d token=%q", user.ID, token)
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != 7 || claims.Role != model.RoleUser {
		t.Errorf("claims wrong: %+v", claims)
	}

	// Wrong password and unknown account both come back as the same
	// generic error.
	if _, _, err := svc.Login(context.Background(), "asha", "wrong"); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected invalid-input for bad password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody", "whatever"); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected invalid-input for unknown account, got %v", err)
	}
}
