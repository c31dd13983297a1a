package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/campus-records-api/internal/models"
	"github.com/campuskit/campus-records-api/internal/repository"
	appErrors "github.com/campuskit/campus-records-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type auditRecorder interface {
	Record(ctx context.Context, action, actor string, details map[string]any) error
}

// RegisterRequest holds the payload for account registration.
type RegisterRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=admin teacher student library_admin"`
	Email      string `json:"email" validate:"omitempty,email"`
}

// LoginRequest holds the payload for credential checks.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// UserService handles account registration, authentication and listing.
type UserService struct {
	repo      userRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the user service.
func NewUserService(repo userRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// Register creates a new account. The identifier must be unused; the stored
// password is returned stripped from the result.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	user := &models.User{
		Identifier: req.Identifier,
		Name:       req.Name,
		Password:   req.Password,
		Role:       models.UserRole(req.Role),
		Email:      req.Email,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentifier) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "user with this identifier already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register user")
	}
	s.recordAudit(ctx, models.AuditActionUserRegistered, models.ActorSystem, map[string]any{
		"identifier": user.Identifier,
		"role":       string(user.Role),
	})
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Authenticate checks the identifier and password against the stored account.
// Unknown identifier and wrong password both surface the same credential
// error; the distinction lives only in the audit trail.
func (s *UserService) Authenticate(ctx context.Context, req LoginRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	user, err := s.repo.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.recordAudit(ctx, models.AuditActionLoginFailed, req.Identifier, map[string]any{
				"reason": "unknown identifier",
			})
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if user.Password != req.Password {
		s.recordAudit(ctx, models.AuditActionLoginFailed, req.Identifier, map[string]any{
			"reason": "wrong password",
		})
		return nil, appErrors.ErrInvalidCredentials
	}
	s.recordAudit(ctx, models.AuditActionUserLogin, user.Identifier, map[string]any{
		"role": string(user.Role),
	})
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// List returns every account without credentials.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return models.SanitizeUsers(users), nil
}

// recordAudit appends a trail entry. A failed write never fails the
// triggering operation.
func (s *UserService) recordAudit(ctx context.Context, action, actor string, details map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, action, actor, details); err != nil {
		s.logger.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}
