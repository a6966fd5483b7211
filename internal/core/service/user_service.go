package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/openblog/blog-api/internal/core/domain"
	"github.com/openblog/blog-api/internal/core/ports"
)

// UserService implements account management and authentication.
type UserService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, tokens ports.TokenService, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, tokens: tokens, log: log}
}

// SignUp registers a standard user. The role is always RoleUser here;
// callers never pick their own role. Admin accounts go through CreateAdmin.
func (s *UserService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	if err := domain.ValidateSignUp(name, email, password); err != nil {
		return nil, err
	}
	if err := s.checkEmailFree(ctx, email); err != nil {
		return nil, err
	}
	return s.create(ctx, name, email, password, domain.RoleUser)
}

// CreateAdmin registers a user with a caller-chosen role. The route is gated
// to administrators; the role must still belong to the known set.
func (s *UserService) CreateAdmin(ctx context.Context, name, email, password string, roleID int) (*domain.User, error) {
	if err := domain.ValidateSignUp(name, email, password); err != nil {
		return nil, err
	}
	if roleID == 0 {
		roleID = domain.RoleUser
	}
	if !domain.KnownRole(roleID) {
		return nil, domain.ErrUnknownRole
	}
	if err := s.checkEmailFree(ctx, email); err != nil {
		return nil, err
	}
	return s.create(ctx, name, email, password, roleID)
}

// SignIn fails closed: unknown email and wrong password both surface
// ErrInvalidCredentials, so responses cannot be used to enumerate accounts.
// On success a signed token is issued for the user's identity.
func (s *UserService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	ok, err := s.repo.ValidatePassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !ok {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ports.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RoleID: user.RoleID,
		Name:   user.Name,
	})
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user signed in")
	return token, user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial update to an existing user. The actor must own the
// record or be an administrator; changing the role additionally requires the
// administrator role. Email conflicts surface as ErrEmailExists.
func (s *UserService) Update(ctx context.Context, actor ports.Claims, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.UserID != user.ID && actor.RoleID != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if in.RoleID != nil && *in.RoleID != user.RoleID {
		if actor.RoleID != domain.RoleAdmin {
			return nil, domain.ErrForbidden
		}
		if !domain.KnownRole(*in.RoleID) {
			return nil, domain.ErrUnknownRole
		}
		user.RoleID = *in.RoleID
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", updated.ID).Int64("actor_id", actor.UserID).Msg("user updated")
	return updated, nil
}

// Delete removes a user. Ownership needs no fetch here: the target id is the
// ownership key itself. Deleting an already-deleted id yields ErrUserNotFound.
func (s *UserService) Delete(ctx context.Context, actor ports.Claims, id int64) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}
	if actor.UserID != id && actor.RoleID != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", id).Int64("actor_id", actor.UserID).Msg("user deleted")
	return nil
}

// checkEmailFree is a best-effort pre-check; the unique index on email is the
// real guard against the race between this lookup and the insert.
func (s *UserService) checkEmailFree(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return domain.ErrEmailExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	return nil
}

func (s *UserService) create(ctx context.Context, name, email, password string, roleID int) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       roleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Int("role_id", roleID).Msg("user created")
	return created, nil
}
