package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gomart/domain"
	"gomart/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserFinder struct {
	mock.Mock
}

func (m *mockUserFinder) FindByID(ctx context.Context, id uint) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func performRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string, seed func(echo.Context)) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if seed != nil {
		seed(c)
	}

	err := mw(okHandler)(c)
	assert.NoError(t, err)

	return rec
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec := performRequest(t, AuthMiddleware(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	rec := performRequest(t, AuthMiddleware(), "Token abc", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	utils.InitJWT("test-secret")

	rec := performRequest(t, AuthMiddleware(), "Bearer not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	utils.InitJWT("other-secret")
	token, err := utils.GenerateJWT("9")
	assert.NoError(t, err)

	utils.InitJWT("test-secret")
	rec := performRequest(t, AuthMiddleware(), "Bearer "+token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_ValidTokenSetsIdentity(t *testing.T) {
	utils.InitJWT("test-secret")
	token, err := utils.GenerateJWT("9")
	assert.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerErr := AuthMiddleware()(func(c echo.Context) error {
		userID, ok := c.Get("user_id").(uint)
		assert.True(t, ok)
		assert.Equal(t, uint(9), userID)
		return c.NoContent(http.StatusOK)
	})(c)

	assert.NoError(t, handlerErr)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_NotAuthenticated(t *testing.T) {
	users := new(mockUserFinder)

	rec := performRequest(t, RequireRole(users, domain.RoleAdmin), "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestRequireRole_UnknownUser(t *testing.T) {
	users := new(mockUserFinder)
	users.On("FindByID", mock.Anything, uint(9)).
		Return(domain.User{}, errors.New("record not found"))

	rec := performRequest(t, RequireRole(users, domain.RoleAdmin), "", func(c echo.Context) {
		c.Set("user_id", uint(9))
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// The stored role decides the outcome on every call: the same identity is
// denied while a customer and allowed after a role change, with no new token.
func TestRequireRole_ReflectsCurrentStoredRole(t *testing.T) {
	users := new(mockUserFinder)
	users.On("FindByID", mock.Anything, uint(9)).
		Return(domain.User{ID: 9, Role: domain.RoleCustomer}, nil).Once()
	users.On("FindByID", mock.Anything, uint(9)).
		Return(domain.User{ID: 9, Role: domain.RoleAdmin}, nil).Once()

	seed := func(c echo.Context) { c.Set("user_id", uint(9)) }
	mw := RequireRole(users, domain.RoleAdmin)

	rec := performRequest(t, mw, "", seed)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = performRequest(t, mw, "", seed)
	assert.Equal(t, http.StatusOK, rec.Code)

	users.AssertExpectations(t)
}
