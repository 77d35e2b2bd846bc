package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/micdrop/openmic/internal/entity"
	"github.com/micdrop/openmic/internal/service"
	"github.com/micdrop/openmic/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	users map[int64]*entity.User
}

func (s *stubAuthService) Register(context.Context, *service.RegisterRequest) (*entity.User, string, error) {
	panic("not used")
}

func (s *stubAuthService) Login(context.Context, *service.LoginRequest) (*entity.User, string, error) {
	panic("not used")
}

func (s *stubAuthService) GetUser(_ context.Context, id int64) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return u, nil
}

func setupAuthRouter(tokens *auth.TokenManager, users *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Auth(tokens, users), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	users := &stubAuthService{users: map[int64]*entity.User{
		7: {ID: 7, Name: "Sam", Role: entity.RoleComedian},
	}}
	router := setupAuthRouter(tokens, users)

	validToken, err := tokens.Generate(7, "comedian")
	require.NoError(t, err)

	deletedToken, err := tokens.Generate(8, "comedian")
	require.NoError(t, err)

	foreign := auth.NewTokenManager("other-secret", time.Hour)
	foreignToken, err := foreign.Generate(7, "comedian")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid token", header: "Bearer " + validToken, want: http.StatusOK},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + validToken, want: http.StatusUnauthorized},
		{name: "malformed header", header: "Bearer", want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreignToken, want: http.StatusUnauthorized},
		{name: "deleted user", header: "Bearer " + deletedToken, want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.token", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCurrentUserWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, CurrentUser(c))
}
