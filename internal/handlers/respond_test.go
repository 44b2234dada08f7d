package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/thereayou/studyflow/internal/logging"
	"github.com/thereayou/studyflow/internal/services"
)

func TestFail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"duplicate", services.ErrDuplicateUsername, http.StatusBadRequest, `{"error":"username already exists"}`},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, `{"error":"invalid credentials"}`},
		{"wrapped validation", fmt.Errorf("%w: activityId is required", services.ErrValidation), http.StatusBadRequest, `{"error":"validation failed: activityId is required"}`},
		{"deleted user", services.ErrUserNotFound, http.StatusUnauthorized, `{"error":"unauthorized"}`},
		{"internal", errors.New("pq: connection refused to 10.0.0.1"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			fail(c, logging.Nop(), tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.JSONEq(t, tc.wantBody, w.Body.String())
		})
	}
}
