package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/database"
)

type userDAO struct {
	db *database.PostgreSQL
}

// NewUserDAO creates the user DAO.
func NewUserDAO(db *database.PostgreSQL) UserDAO {
	return &userDAO{
		db: db,
	}
}

// CreateUser inserts a new account.
func (d *userDAO) CreateUser(ctx context.Context, user *model.User) error {
	if err := d.db.WithContext(ctx).Create(user).Error; err != nil {
		return duplicateKeyToConflict(err, "username or email already taken")
	}
	return nil
}

// duplicateKeyToConflict maps a unique-index violation to the conflict
// kind. Anything else passes through untouched.
func duplicateKeyToConflict(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.Conflict(format, args...)
	}
	return err
}

// GetUser loads one account.
func (d *userDAO) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	err := d.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFound("user %d not found", userID)
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByLogin resolves an account by username or email.
func (d *userDAO) GetUserByLogin(ctx context.Context, usernameOrEmail string) (*model.User, error) {
	var user model.User
	err := d.db.WithContext(ctx).
		Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFound("user %s not found", usernameOrEmail)
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs batch-loads accounts keyed by id. Missing accounts are
// simply absent from the map.
func (d *userDAO) GetUsersByIDs(ctx context.Context, userIDs []int64) (map[int64]*model.User, error) {
	result := make(map[int64]*model.User, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var users []*model.User
	err := d.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		result[user.ID] = user
	}
	return result, nil
}

// UpdateProfile saves profile fields.
func (d *userDAO) UpdateProfile(ctx context.Context, user *model.User) error {
	return d.db.WithContext(ctx).Save(user).Error
}

// UpdatePushSettings stores the push opt-in flag and device token.
func (d *userDAO) UpdatePushSettings(ctx context.Context, userID int64, enabled bool, fcmToken string) error {
	res := d.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"push_enabled": enabled,
			"fcm_token":    fcmToken,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.NotFound("user %d not found", userID)
	}
	return nil
}

// CreateReporterRequest files the user's application to become a
// reporter. Re-applying after a rejection reopens the existing row.
func (d *userDAO) CreateReporterRequest(ctx context.Context, req *model.ReporterRequest) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ReporterRequest
		err := tx.Where("user_id = ?", req.UserID).First(&existing).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			req.Status = model.RequestStatusPending
			if err := tx.Create(req).Error; err != nil {
				return duplicateKeyToConflict(err, "reporter request already filed")
			}
			return nil
		}

		if existing.Status != model.RequestStatusRejected {
			return model.Conflict("reporter request already %s", existing.Status)
		}

		existing.Status = model.RequestStatusPending
		existing.Reason = req.Reason
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*req = existing
		return nil
	})
}

// ListReporterRequests returns applications, oldest first, optionally
// filtered by status.
func (d *userDAO) ListReporterRequests(ctx context.Context, status string) ([]*model.ReporterRequest, error) {
	query := d.db.WithContext(ctx).Model(&model.ReporterRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var requests []*model.ReporterRequest
	err := query.Order("created_at ASC").Find(&requests).Error
	return requests, err
}

// ResolveReporterRequest closes a pending request under a row lock.
// Approval promotes the applicant in the same transaction.
func (d *userDAO) ResolveReporterRequest(ctx context.Context, requestID int64, approve bool) (*model.ReporterRequest, error) {
	var request model.ReporterRequest
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", requestID).
			First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.NotFound("reporter request %d not found", requestID)
			}
			return err
		}

		if request.Status != model.RequestStatusPending {
			return model.Conflict("reporter request %d already %s", requestID, request.Status)
		}

		request.Status = model.RequestStatusRejected
		if approve {
			request.Status = model.RequestStatusApproved
			if err := tx.Model(&model.User{}).
				Where("id = ?", request.UserID).
				UpdateColumn("role", model.RoleReporter).Error; err != nil {
				return err
			}
		}
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListPushTargets returns every account that opted in and registered
// a device token.
func (d *userDAO) ListPushTargets(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := d.db.WithContext(ctx).
		Where("push_enabled = ? AND fcm_token <> ''", true).
		Find(&users).Error
	return users, err
}
