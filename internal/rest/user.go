package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gomart/business/user"
	"gomart/domain"
	"gomart/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, user *domain.User) (domain.User, error)
	Login(ctx context.Context, email, password string) (string, domain.User, error)
	ForgotPassword(ctx context.Context, email, answer, newPassword string) error
	UpdateProfile(ctx context.Context, id uint, patch user.ProfilePatch) (domain.User, error)
	GetUserByID(ctx context.Context, id uint) (domain.User, error)
}

type UserHandler struct {
	userService UserService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type UserRegisterRequest struct {
	FullName       string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	SecurityAnswer string `json:"answer"`
}

type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email       string `json:"email"`
	Answer      string `json:"answer"`
	NewPassword string `json:"new_password"`
}

type UserUpdateRequest struct {
	FullName *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var reqUser UserRegisterRequest

	if err := c.Bind(&reqUser); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.userService.Register(ctx, &domain.User{
		FullName:       reqUser.FullName,
		Email:          reqUser.Email,
		Password:       reqUser.Password,
		Phone:          reqUser.Phone,
		Address:        reqUser.Address,
		SecurityAnswer: reqUser.SecurityAnswer,
	})
	if err != nil {
		// A duplicate registration is an expected business outcome, not a
		// transport error.
		if errors.Is(err, user.ErrDuplicateUser) {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"success": false,
				"message": "already registered, please login",
			})
		}
		if isRegistrationValidationError(err) {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"message": err.Error(),
			})
		}
		logger.Error("Failed to register user", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to register user"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "registration successful",
		"user":    created,
	})
}

func (h *UserHandler) Login(c echo.Context) error {
	var reqUser UserLoginRequest

	if err := c.Bind(&reqUser); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, loggedIn, err := h.userService.Login(ctx, reqUser.Email, reqUser.Password)
	if err != nil {
		// Uniform outcome: never reveal whether the email or the password
		// was the wrong half.
		if errors.Is(err, user.ErrInvalidCredentials) ||
			errors.Is(err, user.ErrUserNotFound) ||
			errors.Is(err, user.ErrWrongPassword) {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"success": false,
				"message": "invalid email or password",
			})
		}
		logger.Error("Failed to login user", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to login"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "login successful",
		"token":   token,
		"user":    loggedIn,
	})
}

func (h *UserHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	err := h.userService.ForgotPassword(ctx, req.Email, req.Answer, req.NewPassword)
	if err != nil {
		if errors.Is(err, user.ErrNoMatch) {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"success": false,
				"message": "wrong email or answer",
			})
		}
		if isRegistrationValidationError(err) {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"message": err.Error(),
			})
		}
		logger.Error("Failed to reset password", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to reset password"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "password reset successful",
	})
}

// UpdateProfile patches the authenticated user's own record.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.userService.UpdateProfile(ctx, userID, user.ProfilePatch{
		FullName: req.FullName,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if errors.Is(err, user.ErrPasswordTooShort) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to update profile", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to update profile"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "profile updated",
		"user":    updated,
	})
}

func isRegistrationValidationError(err error) bool {
	return errors.Is(err, user.ErrNameRequired) ||
		errors.Is(err, user.ErrEmailRequired) ||
		errors.Is(err, user.ErrPasswordRequired) ||
		errors.Is(err, user.ErrPhoneRequired) ||
		errors.Is(err, user.ErrAddressRequired) ||
		errors.Is(err, user.ErrAnswerRequired) ||
		errors.Is(err, user.ErrInvalidEmail) ||
		errors.Is(err, user.ErrPasswordTooShort)
}
