package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
)

func TestCORSConfig(t *testing.T) {
	dev := corsConfig(false, "https://ignored.example")
	assert.Equal(t, devOrigins, dev.AllowOrigins)
	assert.Contains(t, dev.AllowHeaders, auth.UserIDHeader)

	prod := corsConfig(true, " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, prod.AllowOrigins)
	assert.Nil(t, prod.AllowOriginFunc)

	locked := corsConfig(true, "")
	assert.Empty(t, locked.AllowOrigins)
	if assert.NotNil(t, locked.AllowOriginFunc) {
		assert.False(t, locked.AllowOriginFunc("https://evil.example"))
	}
}

func TestRouterBasics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Config{Logger: zerolog.New(io.Discard)})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Caller identity is enforced before any handler runs.
	for _, path := range []string{"/items", "/bookings", "/bookings/owner", "/requests"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
