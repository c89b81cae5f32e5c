package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"recipe_backend/internal/feature/user/domain/entity"
	"recipe_backend/internal/shared/apperr"
)

const (
	// MinPasswordLength はパスワードの最低文字数を定義します。
	MinPasswordLength = 5
	// MaxNameLength is the column size of name and email.
	MaxNameLength = 255
)

// hashCost is the bcrypt cost used for new password hashes.
var hashCost = bcrypt.DefaultCost

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create persists a new user. It returns ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns ErrUserNotFound when no user has the ID.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// Update saves the mutable columns of an existing user.
	Update(ctx context.Context, user *entity.User) error

	// List returns every user ordered by ID.
	List(ctx context.Context) ([]entity.User, error)
}

// ProfileUpdate holds the optional fields of a profile update.
// A nil field is left unchanged.
type ProfileUpdate struct {
	Name     *string
	Password *string
}

// UserUsecase manages accounts and profiles.
type UserUsecase struct {
	users UserRepository
}

// NewUserUsecase creates a UserUsecase backed by users.
func NewUserUsecase(users UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

// NormalizeEmail trims surrounding whitespace and lowercases the domain part.
// The local part is kept as typed since some mail servers treat it case-sensitively.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

func validatePassword(password string) *apperr.ValidationError {
	if len(password) < MinPasswordLength {
		return apperr.NewValidationError("password",
			fmt.Sprintf("Ensure this field has at least %d characters.", MinPasswordLength))
	}
	return nil
}

func validateName(name string) *apperr.ValidationError {
	if strings.TrimSpace(name) == "" {
		return apperr.NewValidationError("name", "This field may not be blank.")
	}
	if len(name) > MaxNameLength {
		return apperr.NewValidationError("name",
			fmt.Sprintf("Ensure this field has no more than %d characters.", MaxNameLength))
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CreateUser registers a user with a hashed password.
// An empty email or a too-short password is a validation error; so is an
// email that is already registered.
func (u *UserUsecase) CreateUser(ctx context.Context, email, password, name string) (*entity.User, error) {
	email = NormalizeEmail(email)

	verr := &apperr.ValidationError{}
	if email == "" {
		verr.Add("email", "Users must have an email address.")
	}
	verr.Merge(validatePassword(password))
	if len(name) > MaxNameLength {
		verr.Merge(validateName(name))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{Email: email, Name: name, Password: hashed, IsActive: true}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, apperr.NewValidationError("email", "user with this email already exists.")
		}
		return nil, err
	}
	return user, nil
}

// CreateSuperuser creates a user and grants staff and superuser rights.
func (u *UserUsecase) CreateSuperuser(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := u.CreateUser(ctx, email, password, "")
	if err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true
	if err := u.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to elevate user: %w", err)
	}
	return user, nil
}

// Me returns the caller's own account.
func (u *UserUsecase) Me(ctx context.Context, callerID uint) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateMe applies a partial profile update to the caller's account.
// A new password is re-hashed before it is stored.
func (u *UserUsecase) UpdateMe(ctx context.Context, callerID uint, in ProfileUpdate) (*entity.User, error) {
	verr := &apperr.ValidationError{}
	if in.Name != nil {
		verr.Merge(validateName(*in.Name))
	}
	if in.Password != nil {
		verr.Merge(validatePassword(*in.Password))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	user, err := u.Me(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Password != nil {
		hashed, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns every account. Only staff may call it.
func (u *UserUsecase) ListUsers(ctx context.Context, callerID uint) ([]entity.User, error) {
	caller, err := u.Me(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff {
		return nil, apperr.ErrForbidden
	}
	return u.users.List(ctx)
}
