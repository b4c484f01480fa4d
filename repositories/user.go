package repositories

import (
	"context"

	"github.com/emlak-portal/models"
	"gorm.io/gorm"
)

// UserRepository handles local user rows and roles
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	return user, translate(err, "user")
}

// FindByExternalID looks a user up by identity-provider subject
func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "external_id = ?", externalID).Error
	return user, translate(err, "user")
}

// Create inserts a user. A concurrent insert of the same external id
// surfaces as a Conflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "user")
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, translate(err, "user")
}

// RoleRepository handles role rows
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).Order("name").Find(&roles).Error
	return roles, translate(err, "role")
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error
	return role, translate(err, "role")
}

func (r *RoleRepository) FindBySlug(ctx context.Context, slug models.RoleSlug) (models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).First(&role, "slug = ?", slug).Error
	return role, translate(err, "role")
}

func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	return translate(r.db.WithContext(ctx).Create(role).Error, "role")
}

func (r *RoleRepository) Save(ctx context.Context, role *models.Role) error {
	return translate(r.db.WithContext(ctx).Save(role).Error, "role")
}

// Delete fails while workers hold the role
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := guardDependents(tx, "role", dependentCheck{&models.OfficeWorker{}, "role_id", id}); err != nil {
			return err
		}
		return deleteResult(tx.Where("id = ?", id).Delete(&models.Role{}), "role")
	})
}
