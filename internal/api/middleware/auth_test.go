package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bulk-order-api-server/internal/auth"
	"bulk-order-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(issuer *auth.TokenIssuer) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	protected := r.Group("/", Authenticate(issuer))
	protected.GET("/me", func(c *gin.Context) {
		caller, _ := CallerFrom(c)
		c.JSON(http.StatusOK, gin.H{"user": caller.UserID.Hex()})
	})
	protected.GET("/admin", Authorize(models.RoleAdmin, models.RoleSuperAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	r := newRouter(issuer)
	userID := primitive.NewObjectID()
	token, err := issuer.GenerateJWT(userID.Hex(), "u@example.com", models.RoleUser)
	require.NoError(t, err)

	w := do(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.Hex())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", token).Code, "missing Bearer prefix")
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Bearer garbage").Code)
}

func TestAuthorize(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	r := newRouter(issuer)

	userToken, err := issuer.GenerateJWT(primitive.NewObjectID().Hex(), "u@example.com", models.RoleUser)
	require.NoError(t, err)
	adminToken, err := issuer.GenerateJWT(primitive.NewObjectID().Hex(), "a@example.com", models.RoleAdmin)
	require.NoError(t, err)

	w := do(r, "/admin", "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"You do not have permission to access this resource","error":true,"success":false}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, do(r, "/admin", "Bearer "+adminToken).Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
