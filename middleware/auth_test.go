package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Bips27/tiffinly-daily-bites/models"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetRole(c)})
	})
	r.GET("/admin-only", AuthRequired(), RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter()

	customer := &models.User{ID: 7, Email: "c@tiffinly.app", Role: models.RoleCustomer}
	token, err := GenerateToken(customer)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name       string
		path       string
		authHeader string
		query      string
		wantStatus int
	}{
		{"missingHeader", "/protected", "", "", http.StatusUnauthorized},
		{"malformedHeader", "/protected", "Token abc", "", http.StatusUnauthorized},
		{"garbageToken", "/protected", "Bearer not-a-jwt", "", http.StatusUnauthorized},
		{"validHeader", "/protected", "Bearer " + token, "", http.StatusOK},
		{"validQueryToken", "/protected", "", "?token=" + token, http.StatusOK},
		{"customerDeniedAdminRoute", "/admin-only", "Bearer " + token, "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path+tt.query, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRoleRequiredAllowsAdmin(t *testing.T) {
	r := newTestRouter()

	admin := &models.User{ID: 1, Email: "a@tiffinly.app", Role: models.RoleAdmin}
	token, err := GenerateToken(admin)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
}
