package services

import (
	"context"
	"errors"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/identity"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Principal is the authenticated caller: the local user, the linked office
// worker if any, and the role slug derived from it.
type Principal struct {
	User   models.User
	Worker *models.OfficeWorker
	Role   models.RoleSlug
}

// HasRole reports whether the principal holds one of roles.
func (p *Principal) HasRole(roles ...models.RoleSlug) bool {
	if p == nil || p.Role == models.RoleNone {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

func (p *Principal) IsSiteAdmin() bool {
	return p.HasRole(models.RoleSiteAdmin)
}

// WorkerID returns the linked worker id or ""
func (p *Principal) WorkerID() string {
	if p == nil || p.Worker == nil {
		return ""
	}
	return p.Worker.ID
}

// OfficeID returns the linked worker's office id or ""
func (p *Principal) OfficeID() string {
	if p == nil || p.Worker == nil {
		return ""
	}
	return p.Worker.OfficeID
}

// AuthService resolves session tokens into principals
type AuthService struct {
	users    *repositories.UserRepository
	workers  *repositories.OfficeWorkerRepository
	verifier identity.Verifier
	log      *zap.Logger
}

func NewAuthService(db *gorm.DB, verifier identity.Verifier, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    repositories.NewUserRepository(db),
		workers:  repositories.NewOfficeWorkerRepository(db),
		verifier: verifier,
		log:      log.Named("auth"),
	}
}

// CurrentUser verifies the token and returns the caller, provisioning the
// local user on first sight.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*Principal, error) {
	id, err := s.verifier.Verify(ctx, token)
	if err != nil {
		if !errors.Is(err, identity.ErrMissingToken) {
			s.log.Debug("rejected session token", zap.Error(err))
		}
		return nil, apperr.Unauthorized("authentication required")
	}

	user, err := s.provision(ctx, id)
	if err != nil {
		return nil, err
	}

	role, worker, err := s.UserRole(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Principal{User: user, Worker: worker, Role: role}, nil
}

func (s *AuthService) provision(ctx context.Context, id identity.Identity) (models.User, error) {
	user, err := s.users.FindByExternalID(ctx, id.Subject)
	if err == nil {
		return user, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return models.User{}, err
	}

	user = models.User{ExternalID: id.Subject, Email: id.Email, Name: id.Name}
	if err := s.users.Create(ctx, &user); err != nil {
		// Another request provisioned the same subject first
		if apperr.Is(err, apperr.KindConflict) {
			return s.users.FindByExternalID(ctx, id.Subject)
		}
		return models.User{}, err
	}
	s.log.Info("provisioned user", zap.String("user_id", user.ID), zap.String("subject", id.Subject))

	linked, err := s.workers.LinkUserByEmail(ctx, user.ID, user.Email)
	if err != nil {
		s.log.Warn("failed to link office worker", zap.String("user_id", user.ID), zap.Error(err))
	} else if linked {
		s.log.Info("linked user to office worker", zap.String("user_id", user.ID))
	}
	return user, nil
}

// UserRole follows User → OfficeWorker → Role. A user without a worker or
// with an unknown role slug has no role.
func (s *AuthService) UserRole(ctx context.Context, userID string) (models.RoleSlug, *models.OfficeWorker, error) {
	worker, err := s.workers.FindByUserID(ctx, userID)
	if apperr.Is(err, apperr.KindNotFound) {
		return models.RoleNone, nil, nil
	}
	if err != nil {
		return models.RoleNone, nil, err
	}
	if worker.Role == nil {
		return models.RoleNone, &worker, nil
	}
	role, ok := models.ParseRoleSlug(string(worker.Role.Slug))
	if !ok {
		s.log.Warn("worker has unknown role slug", zap.String("worker_id", worker.ID), zap.String("slug", string(worker.Role.Slug)))
		return models.RoleNone, &worker, nil
	}
	return role, &worker, nil
}
