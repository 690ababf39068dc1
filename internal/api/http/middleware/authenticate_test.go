package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpcontext "github.com/dtroode/authkeeper/internal/api/http/context"
	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/mocks"
	"github.com/dtroode/authkeeper/internal/model"
	"github.com/dtroode/authkeeper/internal/testutil"
)

func TestAuthenticate_Handle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	claims := model.SessionClaims{Subject: uuid.New(), Role: model.RoleUser, Name: "Ann"}

	tests := []struct {
		name       string
		cookie     string
		header     string
		wantToken  string
		verifyErr  error
		wantCode   int
		wantNextOK bool
	}{
		{
			name:       "cookie token",
			cookie:     "cookie-token",
			wantToken:  "cookie-token",
			wantCode:   http.StatusOK,
			wantNextOK: true,
		},
		{
			name:       "bearer header",
			header:     "Bearer header-token",
			wantToken:  "header-token",
			wantCode:   http.StatusOK,
			wantNextOK: true,
		},
		{
			name:       "cookie wins over header",
			cookie:     "cookie-token",
			header:     "Bearer header-token",
			wantToken:  "cookie-token",
			wantCode:   http.StatusOK,
			wantNextOK: true,
		},
		{
			name:      "nothing presented",
			wantToken: "",
			verifyErr: apierrors.NewErrMissingAuthorizationToken(),
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:      "non bearer scheme is ignored",
			header:    "Basic abc",
			wantToken: "",
			verifyErr: apierrors.NewErrMissingAuthorizationToken(),
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:       "logout placeholder cookie falls back to bearer header",
			cookie:     model.LogoutToken,
			header:     "Bearer header-token",
			wantToken:  "header-token",
			wantCode:   http.StatusOK,
			wantNextOK: true,
		},
		{
			name:      "logout placeholder alone",
			cookie:    model.LogoutToken,
			wantToken: "",
			verifyErr: apierrors.NewErrMissingAuthorizationToken(),
			wantCode:  http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := mocks.NewSessionVerifier(t)
			verifier.On("Verify", mock.Anything, tt.wantToken).Return(claims, tt.verifyErr)
			mgr := httpcontext.NewManager()
			m := NewAuthenticate(verifier, mgr, testutil.MakeNoopLogger())

			var got model.SessionClaims
			var nextCalled bool
			r := gin.New()
			r.GET("/protected", m.Handle, func(c *gin.Context) {
				nextCalled = true
				got, _ = mgr.GetSession(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantNextOK, nextCalled)
			if tt.wantNextOK {
				assert.Equal(t, claims, got)
			} else {
				assert.JSONEq(t, `{"msg":"Authentication invalid."}`, rec.Body.String())
			}
		})
	}
}
