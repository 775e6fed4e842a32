package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddlewareOmitsQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(LoggingMiddleware(&log))
	r.GET("/events/:id/responses", func(c *gin.Context) {
		c.Status(http.StatusForbidden)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/1/responses?token=deadbeef", nil))

	out := buf.String()
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, out, `"path":"/events/1/responses"`)
	assert.Contains(t, out, `"status":403`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.NotContains(t, out, "deadbeef")
}
