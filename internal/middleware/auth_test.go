package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Claims are absent on any request that skipped JWTAuth; helpers must
// degrade instead of panicking.
func TestGetClaims_NilWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Nil(t, GetClaims(c))
}

func TestRequireRole_NoClaimsForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RequireRole(model.RoleAdmin)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_WrongRoleForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(ClaimsKey, &JWTClaims{Role: model.RoleStaff})

	RequireRole(model.RoleAdmin)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_AllowedRolePasses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(ClaimsKey, &JWTClaims{Role: model.RoleAdmin})

	RequireRole(model.RoleAdmin, model.RoleStaff)(c)

	assert.False(t, c.IsAborted())
}
