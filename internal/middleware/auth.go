package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/intervu-ai/backend/config"
	"github.com/intervu-ai/backend/internal/dto"
)

// Context keys populated by the auth middleware.
const (
	ContextUserID = "userID"
	ContextEmail  = "userEmail"
)

// AnonymousUser is the user id recorded when an optional-auth route is hit
// without credentials.
const AnonymousUser = "anonymous"

// RequireUser rejects requests without a valid Supabase-style bearer token.
func RequireUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c, cfg.JWTSecret)
		if err != nil {
			log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected unauthenticated request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or missing authorization token"})
			return
		}
		setUser(c, claims)
		c.Next()
	}
}

// OptionalUser resolves the user when a token is present but lets anonymous
// requests through.
func OptionalUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c, cfg.JWTSecret)
		if err != nil {
			c.Set(ContextUserID, AnonymousUser)
			c.Next()
			return
		}
		setUser(c, claims)
		c.Next()
	}
}

// UserID returns the resolved user for the request, defaulting to anonymous.
func UserID(c *gin.Context) string {
	if id, ok := c.Get(ContextUserID); ok {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	return AnonymousUser
}

func setUser(c *gin.Context, claims jwt.MapClaims) {
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		c.Set(ContextUserID, sub)
	} else {
		c.Set(ContextUserID, AnonymousUser)
	}
	if email, ok := claims["email"].(string); ok {
		c.Set(ContextEmail, email)
	}
}

func parseBearer(c *gin.Context, secret string) (jwt.MapClaims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret not configured")
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, fmt.Errorf("missing authorization header")
	}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, fmt.Errorf("malformed authorization header")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
