package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gomart/domain"
	"gomart/pkg/logger"
	"gomart/pkg/utils"

	jsonres "gomart/pkg/response"

	"github.com/labstack/echo/v4"
)

// UserFinder looks up the current user record; RequireRole depends on it so
// authorization always reflects the stored role, not the token.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// AuthMiddleware authenticates the bearer token and attaches the decoded
// identity to the request context.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing authorization header", nil,
				))
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid authorization format", nil,
				))
			}

			tokenString := tokenParts[1]

			claims, err := utils.ParseJWT(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			expAt, err := claims.GetExpirationTime()
			if err != nil || expAt == nil {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			if time.Now().After(expAt.Time) {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Token expired", nil,
				))
			}

			userIDUint, err := strconv.ParseUint(claims.UserID, 10, 64)
			if err != nil {
				logger.Error("Invalid user ID in token", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			c.Set("user_id", uint(userIDUint))
			c.Set("token", tokenString)

			return next(c)
		}
	}
}

// RequireRole authorizes the authenticated identity against the CURRENT role
// in the store. The record is re-fetched on every call so a role change takes
// effect immediately, without re-login.
func RequireRole(users UserFinder, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get("user_id").(uint)
			if !ok {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "User not authenticated", nil,
				))
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Access denied", nil,
				))
			}

			if user.Role != role {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Access denied", nil,
				))
			}

			return next(c)
		}
	}
}
