package repository

import (
	"context"

	"eau-clair-web/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindUserIDByEmail(ctx context.Context, email string) (uuid.UUID, error)
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db}
}

func (r *profileRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Select("id", "is_admin").First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindUserIDByEmail reads the backend's auth.users table; it needs a role that can see that schema.
func (r *profileRepo) FindUserIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	var row struct {
		ID uuid.UUID
	}
	res := r.db.WithContext(ctx).Raw("SELECT id FROM auth.users WHERE lower(email) = lower(?) LIMIT 1", email).Scan(&row)
	if res.Error != nil {
		return uuid.Nil, res.Error
	}
	if res.RowsAffected == 0 {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return row.ID, nil
}

func (r *profileRepo) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Update("is_admin", isAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
