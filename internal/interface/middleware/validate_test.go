package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkrajat/fullstack-monorpo-starter/pkg/validation"
)

type createNote struct {
	Title string `json:"title" binding:"required,min=1"`
	Body  string `json:"body" binding:"required"`
}

type listNotes struct {
	Page int `form:"page" binding:"required,min=1"`
}

func newValidateEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Init()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := gin.New()
	r.Use(ErrorHandler(logger, true))
	r.POST("/notes", ValidateBody[createNote](), func(c *gin.Context) {
		note := Body[createNote](c)
		c.JSON(http.StatusCreated, gin.H{"title": note.Title})
	})
	r.GET("/notes", ValidateQuery[listNotes](), func(c *gin.Context) {
		q := Query[listNotes](c)
		c.JSON(http.StatusOK, gin.H{"page": q.Page})
	})
	return r
}

func TestValidateBodyReplacesSlot(t *testing.T) {
	r := newValidateEngine()

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"title":"hi","body":"text"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"title":"hi"}`, w.Body.String())
}

func TestValidateBodyShortCircuits(t *testing.T) {
	r := newValidateEngine()

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"title":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Invalid request data")
	// both violated constraints reported, in order
	assert.Contains(t, body, `"path":"title"`)
	assert.Contains(t, body, `"path":"body"`)
	assert.Less(t, strings.Index(body, `"path":"title"`), strings.Index(body, `"path":"body"`))
}

func TestValidateQuery(t *testing.T) {
	r := newValidateEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes?page=3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"page":3}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes?page=0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
