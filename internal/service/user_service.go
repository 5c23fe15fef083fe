package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahalakshmi2126/Newshub-Server/internal/dao"
	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/auth"
	tracecontext "github.com/mahalakshmi2126/Newshub-Server/pkg/context"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/telemetry"
)

// UserService handles accounts, sessions and profile settings.
type UserService struct {
	userDAO dao.UserDAO
	logger  logger.Logger
}

// NewUserService creates the user service.
func NewUserService(userDAO dao.UserDAO, log logger.Logger) *UserService {
	return &UserService{userDAO: userDAO, logger: log}
}

// RegisterParams carries the signup fields.
type RegisterParams struct {
	Username string
	Email    string
	Password string
	Name     string
	Region   string
	Language string
}

// Register creates a new account. Usernames and emails are unique;
// a collision surfaces as a conflict.
func (s *UserService) Register(ctx context.Context, params *RegisterParams) (*model.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "user.service.Register")
	defer span.End()

	span.SetAttributes(attribute.String("user.username", params.Username))

	username := strings.TrimSpace(params.Username)
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if username == "" || email == "" {
		return nil, model.InvalidInput("username and email are required")
	}
	if len(params.Password) < 6 {
		return nil, model.InvalidInput("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return nil, model.Internal("failed to hash password", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Name:         strings.TrimSpace(params.Name),
		Region:       params.Region,
		Language:     params.Language,
		PushEnabled:  true,
	}

	if err := s.userDAO.CreateUser(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create user")
		return nil, err
	}

	s.logger.Info(ctx, "User registered",
		logger.F("userID", user.ID),
		logger.F("username", user.Username))

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	span.SetStatus(codes.Ok, "user registered")
	return user, nil
}

// Login checks credentials and issues a signed token. The login
// field accepts either the username or the email address.
func (s *UserService) Login(ctx context.Context, login, password string) (*model.User, string, error) {
	ctx, span := telemetry.StartSpan(ctx, "user.service.Login")
	defer span.End()

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", model.InvalidInput("login and password are required")
	}

	user, err := s.userDAO.GetUserByLogin(ctx, login)
	if err != nil {
		if model.IsNotFound(err) {
			// Do not reveal whether the account exists.
			return nil, "", model.InvalidInput("invalid credentials")
		}
		span.RecordError(err)
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		span.SetStatus(codes.Error, "bad password")
		return nil, "", model.InvalidInput("invalid credentials")
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		span.RecordError(err)
		return nil, "", model.Internal("failed to issue token", err)
	}

	s.logger.Info(ctx, "User logged in",
		logger.F("userID", user.ID),
		logger.F("username", user.Username))

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	span.SetStatus(codes.Ok, "login succeeded")
	return user, token, nil
}

// GetProfile returns the user's public profile.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "user.service.GetProfile")
	defer span.End()

	span.SetAttributes(attribute.Int64("user.id", userID))
	ctx = tracecontext.WithUserID(ctx, userID)

	if userID <= 0 {
		return nil, model.InvalidInput("user id is required")
	}

	user, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user not found")
		return nil, err
	}

	span.SetStatus(codes.Ok, "profile fetched")
	return user, nil
}

// UpdateProfileParams carries the editable profile fields.
type UpdateProfileParams struct {
	Name     string
	Avatar   string
	Region   string
	Language string
}

// UpdateProfile edits the caller's display fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, params *UpdateProfileParams) (*model.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "user.service.UpdateProfile")
	defer span.End()

	span.SetAttributes(attribute.Int64("user.id", userID))
	ctx = tracecontext.WithUserID(ctx, userID)

	if userID <= 0 {
		return nil, model.InvalidInput("user id is required")
	}

	user, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	user.Name = strings.TrimSpace(params.Name)
	user.Avatar = params.Avatar
	user.Region = params.Region
	user.Language = params.Language

	if err := s.userDAO.UpdateProfile(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update profile")
		return nil, err
	}

	s.logger.Info(ctx, "Profile updated", logger.F("userID", userID))
	span.SetStatus(codes.Ok, "profile updated")
	return user, nil
}

// RequestReporterRole files the caller's application to publish news.
// Accounts that can already publish conflict.
func (s *UserService) RequestReporterRole(ctx context.Context, userID int64, reason string) (*model.ReporterRequest, error) {
	ctx, span := telemetry.StartSpan(ctx, "user.service.RequestReporterRole")
	defer span.End()

	span.SetAttributes(attribute.Int64("user.id", userID))
	ctx = tracecontext.WithUserID(ctx, userID)

	if userID <= 0 {
		return nil, model.InvalidInput("user id is required")
	}

	user, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if user.CanPublish() {
		return nil, model.Conflict("account can already publish news")
	}

	request := &model.ReporterRequest{
		UserID: userID,
		Reason: strings.TrimSpace(reason),
		Status: model.RequestStatusPending,
	}
	if err := s.userDAO.CreateReporterRequest(ctx, request); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to file reporter request")
		return nil, err
	}

	s.logger.Info(ctx, "Reporter request filed",
		logger.F("requestID", request.ID),
		logger.F("userID", userID))

	span.SetStatus(codes.Ok, "reporter request filed")
	return request, nil
}

// ListReporterRequests returns applications for admin review,
// pending ones by default.
func (s *UserService) ListReporterRequests(ctx context.Context, status string) ([]*model.ReporterRequest, error) {
	ctx, span := telemetry.StartSpan(ctx, "user.service.ListReporterRequests")
	defer span.End()

	if status == "" {
		status = model.RequestStatusPending
	}
	if status != model.RequestStatusPending &&
		status != model.RequestStatusApproved &&
		status != model.RequestStatusRejected {
		return nil, model.InvalidInput("status must be pending, approved or rejected")
	}

	requests, err := s.userDAO.ListReporterRequests(ctx, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list reporter requests")
		return nil, err
	}

	span.SetStatus(codes.Ok, "reporter requests listed")
	return requests, nil
}

// ResolveReporterRequest applies an admin decision. Approval promotes
// the applicant to reporter.
func (s *UserService) ResolveReporterRequest(ctx context.Context, requestID int64, approve bool) (*model.ReporterRequest, error) {
	ctx, span := telemetry.StartSpan(ctx, "user.service.ResolveReporterRequest")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("request.id", requestID),
		attribute.Bool("request.approve", approve),
	)

	if requestID <= 0 {
		return nil, model.InvalidInput("request id is required")
	}

	request, err := s.userDAO.ResolveReporterRequest(ctx, requestID, approve)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve reporter request")
		return nil, err
	}

	s.logger.Info(ctx, "Reporter request resolved",
		logger.F("requestID", requestID),
		logger.F("userID", request.UserID),
		logger.F("status", request.Status))

	span.SetStatus(codes.Ok, "reporter request resolved")
	return request, nil
}

// UpdatePushSettings stores the user's notification preference and
// device token.
func (s *UserService) UpdatePushSettings(ctx context.Context, userID int64, enabled bool, fcmToken string) error {
	ctx, span := telemetry.StartSpan(ctx, "user.service.UpdatePushSettings")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user.id", userID),
		attribute.Bool("push.enabled", enabled),
	)

	ctx = tracecontext.WithUserID(ctx, userID)

	if userID <= 0 {
		return model.InvalidInput("user id is required")
	}

	if err := s.userDAO.UpdatePushSettings(ctx, userID, enabled, fcmToken); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update push settings")
		return err
	}

	span.SetStatus(codes.Ok, "push settings updated")
	return nil
}
