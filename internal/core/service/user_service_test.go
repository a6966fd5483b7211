package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/openblog/blog-api/internal/core/domain"
	"github.com/openblog/blog-api/internal/core/ports"
)

// stubUserRepo is an in-memory UserRepository that records which methods were
// called.
type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
	calls  []string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.calls = append(r.calls, "Create")
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
	}
	r.nextID++
	stored := *user
	stored.ID = r.nextID
	r.users[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.calls = append(r.calls, "FindByID")
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.calls = append(r.calls, "FindByEmail")
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.calls = append(r.calls, "Update")
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.calls = append(r.calls, "Delete")
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) ValidatePassword(_ context.Context, email, password string) (bool, error) {
	r.calls = append(r.calls, "ValidatePassword")
	for _, u := range r.users {
		if u.Email == email {
			err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
			return err == nil, nil
		}
	}
	return false, domain.ErrUserNotFound
}

// stubTokenService issues a fixed token and records the last claims it saw.
type stubTokenService struct {
	issued ports.Claims
	err    error
}

func (s *stubTokenService) Issue(claims ports.Claims) (string, error) {
	s.issued = claims
	if s.err != nil {
		return "", s.err
	}
	return "stub-token", nil
}

func (s *stubTokenService) Verify(string) (*ports.Claims, error) {
	return nil, domain.ErrInvalidToken
}

func newUserService(repo *stubUserRepo, tokens *stubTokenService) *UserService {
	return NewUserService(repo, tokens, zerolog.Nop())
}

func TestSignUpAssignsStandardRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	user, err := svc.SignUp(context.Background(), "Ada", "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	if user.RoleID != domain.RoleUser {
		t.Fatalf("RoleID = %d, want %d", user.RoleID, domain.RoleUser)
	}
	if user.ID == 0 {
		t.Fatal("expected a generated id")
	}
	if user.PasswordHash == "secret" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestSignUpMissingFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	_, err := svc.SignUp(context.Background(), "Ada", "", "secret")
	if !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("SignUp() = %v, want ErrMissingFields", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("repo called on invalid input: %v", repo.calls)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	if _, err := svc.SignUp(context.Background(), "Ada", "ada@example.com", "secret"); err != nil {
		t.Fatalf("first SignUp() error: %v", err)
	}
	_, err := svc.SignUp(context.Background(), "Other", "ada@example.com", "different")
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("second SignUp() = %v, want ErrEmailExists", err)
	}
}

func TestCreateAdminHonorsRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	admin, err := svc.CreateAdmin(context.Background(), "Root", "root@example.com", "secret", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateAdmin() error: %v", err)
	}
	if admin.RoleID != domain.RoleAdmin {
		t.Fatalf("RoleID = %d, want %d", admin.RoleID, domain.RoleAdmin)
	}
}

func TestCreateAdminDefaultsZeroRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	user, err := svc.CreateAdmin(context.Background(), "Ada", "ada@example.com", "secret", 0)
	if err != nil {
		t.Fatalf("CreateAdmin() error: %v", err)
	}
	if user.RoleID != domain.RoleUser {
		t.Fatalf("RoleID = %d, want %d", user.RoleID, domain.RoleUser)
	}
}

func TestCreateAdminUnknownRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	_, err := svc.CreateAdmin(context.Background(), "Ada", "ada@example.com", "secret", 9)
	if !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("CreateAdmin() = %v, want ErrUnknownRole", err)
	}
}

func TestSignInSuccess(t *testing.T) {
	repo := newStubUserRepo()
	tokens := &stubTokenService{}
	svc := newUserService(repo, tokens)

	created, err := svc.SignUp(context.Background(), "Ada", "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}

	token, user, err := svc.SignIn(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn() error: %v", err)
	}
	if token != "stub-token" {
		t.Fatalf("token = %q, want %q", token, "stub-token")
	}
	if user.ID != created.ID {
		t.Fatalf("user id = %d, want %d", user.ID, created.ID)
	}

	want := ports.Claims{UserID: created.ID, Email: "ada@example.com", RoleID: domain.RoleUser, Name: "Ada"}
	if tokens.issued != want {
		t.Fatalf("issued claims = %+v, want %+v", tokens.issued, want)
	}
}

func TestSignInFailsClosed(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	if _, err := svc.SignUp(context.Background(), "Ada", "ada@example.com", "secret"); err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	_, _, unknownErr := svc.SignIn(context.Background(), "nobody@example.com", "secret")
	_, _, wrongErr := svc.SignIn(context.Background(), "ada@example.com", "not-the-password")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v, want ErrInvalidCredentials", unknownErr)
	}
	if !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v, want ErrInvalidCredentials", wrongErr)
	}
}

func TestSignInEmptyCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	_, _, err := svc.SignIn(context.Background(), "", "")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("SignIn() = %v, want ErrInvalidCredentials", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("repo called on empty credentials: %v", repo.calls)
	}
}

func TestGetUserInvalidID(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	_, err := svc.Get(context.Background(), 0)
	if !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("Get(0) = %v, want ErrInvalidID", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("repo called with invalid id: %v", repo.calls)
	}
}

func TestGetUserNotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	_, err := svc.Get(context.Background(), 99)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("Get(99) = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateUserOwner(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	created, _ := svc.SignUp(context.Background(), "Ada", "ada@example.com", "secret")

	newName := "Ada Lovelace"
	actor := ports.Claims{UserID: created.ID, RoleID: domain.RoleUser}
	updated, err := svc.Update(context.Background(), actor, created.ID, ports.UpdateUserInput{Name: &newName})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Name != newName {
		t.Fatalf("name = %q, want %q", updated.Name, newName)
	}
	if updated.Email != "ada@example.com" {
		t.Fatalf("untouched email changed: %q", updated.Email)
	}
}

func TestUpdateUserStrangerForbidden(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	created, _ := svc.SignUp(context.Background(), "Ada", "ada@example.com", "secret")

	newName := "Hijacked"
	actor := ports.Claims{UserID: created.ID + 100, RoleID: domain.RoleUser}
	_, err := svc.Update(context.Background(), actor, created.ID, ports.UpdateUserInput{Name: &newName})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Update() = %v, want ErrForbidden", err)
	}
}

func TestUpdateUserAdminAllowed(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	created, _ := svc.SignUp(context.Background(), "Ada", "ada@example.com", "secret")

	newName := "Renamed"
	actor := ports.Claims{UserID: created.ID + 100, RoleID: domain.RoleAdmin}
	updated, err := svc.Update(context.Background(), actor, created.ID, ports.UpdateUserInput{Name: &newName})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Name != newName {
		t.Fatalf("name = %q, want %q", updated.Name, newName)
	}
}

func TestUpdateUserRoleChangeRequiresAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	created, _ := svc.SignUp(context.Background(), "Ada", "ada@example.com", "secret")

	adminRole := domain.RoleAdmin
	owner := ports.Claims{UserID: created.ID, RoleID: domain.RoleUser}
	_, err := svc.Update(context.Background(), owner, created.ID, ports.UpdateUserInput{RoleID: &adminRole})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("owner role escalation = %v, want ErrForbidden", err)
	}

	admin := ports.Claims{UserID: 999, RoleID: domain.RoleAdmin}
	updated, err := svc.Update(context.Background(), admin, created.ID, ports.UpdateUserInput{RoleID: &adminRole})
	if err != nil {
		t.Fatalf("admin role change error: %v", err)
	}
	if updated.RoleID != domain.RoleAdmin {
		t.Fatalf("RoleID = %d, want %d", updated.RoleID, domain.RoleAdmin)
	}
}

func TestUpdateUserPasswordRehashed(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	created, _ := svc.SignUp(context.Background(), "Ada", "ada@example.com", "secret")

	newPassword := "rotated"
	actor := ports.Claims{UserID: created.ID, RoleID: domain.RoleUser}
	if _, err := svc.Update(context.Background(), actor, created.ID, ports.UpdateUserInput{Password: &newPassword}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	ok, err := repo.ValidatePassword(context.Background(), "ada@example.com", "rotated")
	if err != nil || !ok {
		t.Fatalf("new password not accepted: ok=%v err=%v", ok, err)
	}
	ok, _ = repo.ValidatePassword(context.Background(), "ada@example.com", "secret")
	if ok {
		t.Fatal("old password still accepted after rotation")
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	newName := "Ghost"
	actor := ports.Claims{UserID: 1, RoleID: domain.RoleAdmin}
	_, err := svc.Update(context.Background(), actor, 42, ports.UpdateUserInput{Name: &newName})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("Update(missing) = %v, want ErrUserNotFound", err)
	}
}

func TestDeleteUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	created, _ := svc.SignUp(context.Background(), "Ada", "ada@example.com", "secret")
	actor := ports.Claims{UserID: created.ID, RoleID: domain.RoleUser}

	if err := svc.Delete(context.Background(), actor, created.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	// A second delete of the same id reports the user as gone.
	if err := svc.Delete(context.Background(), actor, created.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("second Delete() = %v, want ErrUserNotFound", err)
	}
}

func TestDeleteUserStrangerForbidden(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	created, _ := svc.SignUp(context.Background(), "Ada", "ada@example.com", "secret")

	stranger := ports.Claims{UserID: created.ID + 1, RoleID: domain.RoleUser}
	if err := svc.Delete(context.Background(), stranger, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Delete() = %v, want ErrForbidden", err)
	}

	admin := ports.Claims{UserID: created.ID + 1, RoleID: domain.RoleAdmin}
	if err := svc.Delete(context.Background(), admin, created.ID); err != nil {
		t.Fatalf("admin Delete() error: %v", err)
	}
}

func TestDeleteUserInvalidID(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, &stubTokenService{})

	actor := ports.Claims{UserID: 1, RoleID: domain.RoleAdmin}
	if err := svc.Delete(context.Background(), actor, -3); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("Delete(-3) = %v, want ErrInvalidID", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("repo called with invalid id: %v", repo.calls)
	}
}
