package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/workspace"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKeyUserID is the gin context key holding the authenticated user ID.
const ContextKeyUserID = "userID"

// AnonymousUserID is assigned when authentication is disabled.
const AnonymousUserID = "anonymous"

// AuthMiddleware verifies the bearer token on agent routes. With no JWT
// secret configured, requests run as anonymous (local development only).
func AuthMiddleware(settings *config.AuthSettings, logger logger.Logger) gin.HandlerFunc {
	if !settings.Enabled() {
		logger.Warn("API_SECRET_KEY not set: agent routes run without authentication")
		return func(ctx *gin.Context) {
			ctx.Set(ContextKeyUserID, AnonymousUserID)
			ctx.Next()
		}
	}

	secret := []byte(settings.JWTSecret)

	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "missing or invalid authorization header"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		options := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
		if settings.Issuer != "" {
			options = append(options, jwt.WithIssuer(settings.Issuer))
		}
		if settings.Audience != "" {
			options = append(options, jwt.WithAudience(settings.Audience))
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, options...)
		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid or expired token"})
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "token has no subject"})
			return
		}

		ctx.Set(ContextKeyUserID, subject)
		ctx.Next()
	}
}

// membershipGuard checks that the authenticated user belongs to the
// workspace named in the request body.
type membershipGuard struct {
	memberships workspace.MembershipRepository
	logger      logger.Logger
}

// verify returns the user's membership or writes a 403 and returns false.
// Anonymous users (auth disabled) bypass the check.
func (g *membershipGuard) verify(ctx *gin.Context, workspaceID string) bool {
	userID := ctx.GetString(ContextKeyUserID)
	if userID == "" || userID == AnonymousUserID {
		return true
	}

	_, err := g.memberships.GetActive(ctx.Request.Context(), userID, workspaceID)
	if err != nil {
		if errors.Is(err, workspace.ErrNotAMember) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Message: "not a member of this workspace"})
			return false
		}
		g.logger.Error(fmt.Sprintf("Membership check failed: %v", err))
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "membership check failed"})
		return false
	}

	return true
}
