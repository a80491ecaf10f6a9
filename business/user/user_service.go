package user

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gomart/domain"
	"gomart/pkg/logger"
	"gomart/pkg/utils"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrPhoneRequired    = errors.New("phone is required")
	ErrAddressRequired  = errors.New("address is required")
	ErrAnswerRequired   = errors.New("answer is required")

	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrDuplicateUser    = errors.New("email is already registered")

	// Login failures. Handlers must collapse all three into one uniform
	// outcome so callers cannot probe which credential was wrong.
	ErrInvalidCredentials = errors.New("email and password are required")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("incorrect password")

	ErrNoMatch = errors.New("wrong email or answer")
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByEmailAndAnswer(ctx context.Context, email, answer string) (domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

// ProfilePatch carries a partial profile update: nil means unchanged.
type ProfilePatch struct {
	FullName *string
	Password *string
	Phone    *string
	Address  *string
}

type userService struct {
	userRepo UserRepository
	validate *validator.Validate
}

func NewUserService(userRepo UserRepository, validate *validator.Validate) *userService {
	return &userService{
		userRepo: userRepo,
		validate: validate,
	}
}

// Register validates the six required fields in a fixed order so each absence
// yields its own named error, then persists a customer-role user.
func (s *userService) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	if strings.TrimSpace(user.FullName) == "" {
		return domain.User{}, ErrNameRequired
	}
	if strings.TrimSpace(user.Email) == "" {
		return domain.User{}, ErrEmailRequired
	}
	if user.Password == "" {
		return domain.User{}, ErrPasswordRequired
	}
	if strings.TrimSpace(user.Phone) == "" {
		return domain.User{}, ErrPhoneRequired
	}
	if strings.TrimSpace(user.Address) == "" {
		return domain.User{}, ErrAddressRequired
	}
	if strings.TrimSpace(user.SecurityAnswer) == "" {
		return domain.User{}, ErrAnswerRequired
	}

	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, ErrInvalidEmail
	}

	if len(user.Password) < 6 {
		return domain.User{}, ErrPasswordTooShort
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existingUser.ID > 0 {
		logger.Warn("Registration with existing email", "email", user.Email)
		return domain.User{}, ErrDuplicateUser
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		FullName:       user.FullName,
		Email:          user.Email,
		Password:       string(passwordHash),
		Phone:          user.Phone,
		Address:        user.Address,
		SecurityAnswer: user.SecurityAnswer,
		Role:           domain.RoleCustomer,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user", err)
		return domain.User{}, err
	}

	newUser.Sanitize()
	return newUser, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	if email == "" || password == "" {
		return "", domain.User{}, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Warn("Login with unknown email")
		return "", domain.User{}, ErrUserNotFound
	}

	if !utils.CheckPassword(password, user.Password) {
		logger.Warn("Login with incorrect password", "user_id", user.ID)
		return "", domain.User{}, ErrWrongPassword
	}

	userIDStr := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userIDStr)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	user.Sanitize()
	return token, user, nil
}

// ForgotPassword overwrites the password after an exact (email, answer) match.
// All other fields stay untouched.
func (s *userService) ForgotPassword(ctx context.Context, email, answer, newPassword string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if strings.TrimSpace(answer) == "" {
		return ErrAnswerRequired
	}
	if newPassword == "" {
		return ErrPasswordRequired
	}

	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByEmailAndAnswer(ctx, email, answer)
	if err != nil {
		logger.Warn("Password reset with no matching email/answer pair")
		return ErrNoMatch
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return errors.New("failed to hash password")
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(passwordHash)); err != nil {
		logger.Error("Failed to update password", err)
		return err
	}

	return nil
}

// UpdateProfile merges the patch over the stored record: only supplied fields
// overwrite, and the password is re-hashed only when one is supplied.
func (s *userService) UpdateProfile(ctx context.Context, id uint, patch ProfilePatch) (domain.User, error) {
	existingUser, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for update", err)
		return domain.User{}, ErrUserNotFound
	}

	if patch.FullName != nil && *patch.FullName != "" {
		existingUser.FullName = *patch.FullName
	}

	if patch.Password != nil {
		if len(*patch.Password) < 6 {
			return domain.User{}, ErrPasswordTooShort
		}

		passwordHash, err := utils.HashPassword(*patch.Password)
		if err != nil {
			logger.Error("Failed to hash password", err)
			return domain.User{}, errors.New("failed to hash password")
		}
		existingUser.Password = string(passwordHash)
	}

	if patch.Phone != nil && *patch.Phone != "" {
		existingUser.Phone = *patch.Phone
	}

	if patch.Address != nil && *patch.Address != "" {
		existingUser.Address = *patch.Address
	}

	if err := s.userRepo.Update(ctx, &existingUser); err != nil {
		logger.Error("Failed to update user", err)
		return domain.User{}, err
	}

	existingUser.Sanitize()
	return existingUser, nil
}

// GetUserByID retrieves a sanitized user record.
func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, ErrUserNotFound
	}

	user.Sanitize()
	return user, nil
}
