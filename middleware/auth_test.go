package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fooddelight/config"
	"fooddelight/models"
	"fooddelight/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testJWT = config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "fooddelight"}

func newTestRouter(a *Auth) *gin.Engine {
	r := gin.New()
	who := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": CurrentSession(c).Identity.Role})
	}
	r.GET("/me", a.Required(), who)
	r.GET("/admin", a.Required(), RoleRequired(models.RoleAdmin), who)
	r.GET("/staff", a.Required(), RoleRequired(models.RolePartner, models.RoleAdmin), who)
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, store session.Store, a *Auth, id session.Identity) (*session.Session, string) {
	t.Helper()
	s := session.New(id)
	require.NoError(t, store.Create(context.Background(), s))
	token, err := a.GenerateToken(s)
	require.NoError(t, err)
	return s, token
}

func TestRequiredAcceptsLiveSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	a := NewAuth(testJWT, store)
	r := newTestRouter(a)
	_, token := login(t, store, a, session.Identity{Role: models.RoleUser, UserID: 7, Name: "Asha"})

	w := get(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"user"}`, w.Body.String())

	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, "user:7", claims.Subject)
	assert.Equal(t, "fooddelight", claims.Issuer)
}

func TestRequiredRejects(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	a := NewAuth(testJWT, store)
	r := newTestRouter(a)

	ended, endedToken := login(t, store, a, session.Identity{Role: models.RoleUser, UserID: 1})
	require.NoError(t, store.Delete(context.Background(), ended.ID))

	foreign := NewAuth(config.JWTConfig{Secret: "other-secret", Expiration: time.Hour, Issuer: "fooddelight"}, store)
	_, foreignToken := login(t, store, foreign, session.Identity{Role: models.RoleUser, UserID: 2})

	otherIssuer := NewAuth(config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "someone-else"}, store)
	_, issuerToken := login(t, store, otherIssuer, session.Identity{Role: models.RoleUser, UserID: 3})

	expired := NewAuth(config.JWTConfig{Secret: "test-secret", Expiration: -time.Minute, Issuer: "fooddelight"}, store)
	_, expiredToken := login(t, store, expired, session.Identity{Role: models.RoleUser, UserID: 4})

	live, _ := login(t, store, a, session.Identity{Role: models.RoleUser, UserID: 5})
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS384, Claims{
		Role:             models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{ID: live.ID, Issuer: "fooddelight", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	roleSwap, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ID: live.ID, Issuer: "fooddelight", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage", "not-a-jwt"},
		{"ended session", endedToken},
		{"wrong secret", foreignToken},
		{"wrong issuer", issuerToken},
		{"expired", expiredToken},
		{"unexpected algorithm", forged},
		{"role does not match session", roleSwap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/me", tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestRoleRequired(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	a := NewAuth(testJWT, store)
	r := newTestRouter(a)

	_, userToken := login(t, store, a, session.Identity{Role: models.RoleUser, UserID: 1})
	_, partnerToken := login(t, store, a, session.Identity{Role: models.RolePartner, PartnerID: 3})
	_, adminToken := login(t, store, a, session.Identity{Role: models.RoleAdmin, Name: "admin"})

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", userToken).Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", partnerToken).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", adminToken).Code)

	assert.Equal(t, http.StatusForbidden, get(r, "/staff", userToken).Code)
	assert.Equal(t, http.StatusOK, get(r, "/staff", partnerToken).Code)

	w := get(r, "/admin", userToken)
	assert.Contains(t, w.Body.String(), "Required role(s): admin")
}

func TestRoleRequiredWithoutSession(t *testing.T) {
	r := gin.New()
	r.GET("/x", RoleRequired(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusForbidden, get(r, "/x", "").Code)
}
