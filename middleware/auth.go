package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fooddelight/config"
	"fooddelight/models"
	"fooddelight/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionKey = "session"

// Claims binds a token to a server-side session. RegisteredClaims.ID holds the
// session id.
type Claims struct {
	Role models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Auth issues and verifies tokens and resolves them to sessions.
type Auth struct {
	secret []byte
	issuer string
	ttl    time.Duration
	store  session.Store
}

func NewAuth(cfg config.JWTConfig, store session.Store) *Auth {
	return &Auth{secret: []byte(cfg.Secret), issuer: cfg.Issuer, ttl: cfg.Expiration, store: store}
}

// GenerateToken creates a signed JWT for a session
func (a *Auth) GenerateToken(s *session.Session) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: s.Identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   subject(s.Identity),
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func subject(id session.Identity) string {
	switch id.Role {
	case models.RoleUser:
		return "user:" + strconv.FormatUint(uint64(id.UserID), 10)
	case models.RolePartner:
		return "partner:" + strconv.FormatUint(uint64(id.PartnerID), 10)
	}
	return string(id.Role)
}

// Required validates the bearer token and loads its session into the context
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			return
		}
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
			func(t *jwt.Token) (any, error) { return a.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(a.issuer),
		)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		s, err := a.store.Get(c.Request.Context(), claims.ID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has ended, please log in again"})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
			return
		}
		if s.Identity.Role != claims.Role {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := CurrentSession(c)
		if s == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in context"})
			return
		}
		for _, r := range roles {
			if s.Identity.Role == r {
				c.Next()
				return
			}
		}
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + strings.Join(names, ", "),
		})
	}
}

// CurrentSession returns the session loaded by Required, or nil
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
