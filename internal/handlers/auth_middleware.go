package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-portal-service/internal/auth"
	"github.com/SAP-F-2025/school-portal-service/internal/config"
	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/SAP-F-2025/school-portal-service/internal/services"
	"github.com/SAP-F-2025/school-portal-service/internal/utils"
)

const (
	contextKeyPrincipal = "principal"

	// landingPath is where a caller outside their role namespace is sent.
	landingPath = "/"
)

// casdoorTokenParser is the part of the Casdoor client the middleware uses.
type casdoorTokenParser interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

// AuthMiddleware resolves the bearer token into a Principal. Locally issued
// tokens are tried first, then Casdoor tokens when SSO is configured.
type AuthMiddleware struct {
	tokens   *auth.TokenManager
	identity services.IdentityService
	casdoor  casdoorTokenParser
	logger   utils.Logger
}

func NewAuthMiddleware(tokens *auth.TokenManager, identity services.IdentityService, cfg config.CasdoorConfig, logger utils.Logger) *AuthMiddleware {
	am := &AuthMiddleware{
		tokens:   tokens,
		identity: identity,
		logger:   logger,
	}
	if cfg.Enabled() {
		am.casdoor = casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Cert,
			cfg.Organization,
			cfg.Application,
		)
	}
	return am
}

// Authenticate rejects requests without a valid token with 401.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		p, err := am.resolve(c, token)
		if err != nil {
			if isAuthFailure(err) {
				unauthorized(c, err.Error())
				return
			}
			utils.GetLogger(c, am.logger).Error("Failed to resolve principal", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
				Message: "Internal server error",
			})
			return
		}

		c.Set(contextKeyPrincipal, p)
		c.Next()
	}
}

// RequireRole admits only callers whose role is exactly role. Admins do not
// inherit other namespaces.
func (am *AuthMiddleware) RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			unauthorized(c, "authentication required")
			return
		}
		if p.Role() != role {
			utils.GetLogger(c, am.logger).Warn("Role namespace denied",
				"user_id", p.UserID(),
				"role", p.Role(),
				"required_role", role,
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "access denied",
				"redirect": landingPath,
			})
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) resolve(c *gin.Context, token string) (*services.Principal, error) {
	ctx := c.Request.Context()

	claims, err := am.tokens.Parse(token)
	if err == nil {
		return am.identity.ResolvePrincipal(ctx, claims.UserID)
	}
	if am.casdoor == nil {
		return nil, err
	}

	ssoClaims, ssoErr := am.casdoor.ParseJwtToken(token)
	if ssoErr != nil {
		utils.GetLogger(c, am.logger).Debug("Token rejected", "local_error", err, "casdoor_error", ssoErr)
		return nil, auth.ErrInvalidToken
	}
	if ssoClaims.User.Name == "" {
		return nil, auth.ErrInvalidToken
	}
	return am.identity.ResolvePrincipalByUsername(ctx, ssoClaims.User.Name)
}

// isAuthFailure reports whether err means the caller must log in again, as
// opposed to the lookup itself failing.
func isAuthFailure(err error) bool {
	return errors.Is(err, services.ErrUnauthenticated) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrTokenExpired)
}

var errMissingAuthHeader = errors.New("authorization header missing")

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingAuthHeader
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
	})
}

// GetPrincipal returns the caller set by Authenticate.
func GetPrincipal(c *gin.Context) (*services.Principal, bool) {
	v, exists := c.Get(contextKeyPrincipal)
	if !exists {
		return nil, false
	}
	p, ok := v.(*services.Principal)
	return p, ok && p != nil
}
