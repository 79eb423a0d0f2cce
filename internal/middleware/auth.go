package middleware

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/scoring-service/internal/config"
	"github.com/SAP-F-2025/scoring-service/internal/utils"
)

// Authenticator validates Casdoor-issued tokens and exposes the caller's
// identity to handlers through the gin context.
type Authenticator struct {
	client *casdoorsdk.Client
	logger utils.Logger
}

func NewAuthenticator(cfg *config.Config, logger utils.Logger) *Authenticator {
	client := casdoorsdk.NewClient(
		cfg.CasdoorEndpoint,
		cfg.CasdoorClientID,
		cfg.CasdoorClientSecret,
		cfg.CasdoorCertificate,
		cfg.CasdoorOrganization,
		cfg.CasdoorApplication,
	)
	return &Authenticator{client: client, logger: logger}
}

// RequireAuth rejects requests without a valid bearer token and stores
// user_id, user_role, user_name and user_email in the request context.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Missing authorization token",
			})
			return
		}

		claims, err := a.client.ParseJwtToken(token)
		if err != nil {
			a.logger.Warn("Token validation failed",
				"path", c.Request.URL.Path,
				"error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid authorization token",
			})
			return
		}

		c.Set("user_id", claims.User.Id)
		c.Set("user_role", roleFromClaims(claims))
		c.Set("user_name", claims.User.DisplayName)
		c.Set("user_email", claims.User.Email)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func roleFromClaims(claims *casdoorsdk.Claims) string {
	if claims.User.IsAdmin {
		return "admin"
	}
	if len(claims.User.Tag) > 0 {
		return claims.User.Tag
	}
	return "teacher"
}
