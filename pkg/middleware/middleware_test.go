package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestEngine(logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), LoggingMiddleware(logger))
	r.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"id": GetRequestID(c)}) })
	r.GET("/boom", func(c *gin.Context) { RespondWithError(c, http.StatusInternalServerError, "boom") })
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	r := newTestEngine(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	id := w.Header().Get(RequestIDHeader)
	if id == "" {
		t.Fatal("expected a generated request id")
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != id {
		t.Errorf("context id %q != header id %q", body["id"], id)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	r := newTestEngine(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("expected abc-123, got %q", got)
	}
}

func TestLoggingMiddlewareLevels(t *testing.T) {
	var buf bytes.Buffer
	r := newTestEngine(slog.New(slog.NewTextHandler(&buf, nil)))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	out := buf.String()
	if !strings.Contains(out, "level=INFO msg=\"request served\"") {
		t.Errorf("missing info line:\n%s", out)
	}
	if !strings.Contains(out, "level=ERROR msg=\"request failed\"") || !strings.Contains(out, "status=500") {
		t.Errorf("missing error line:\n%s", out)
	}
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name" validate:"required"`
	}

	if errs := ValidateRequest(req{Email: "a@x.com", Name: "A"}); errs != nil {
		t.Fatalf("expected no errors, got %+v", errs)
	}

	errs := ValidateRequest(req{Email: "nope"})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %+v", errs)
	}
	if errs[0].Field != "Email" || errs[0].Type != "email" || errs[0].Message != "Invalid email format" {
		t.Errorf("unexpected email error %+v", errs[0])
	}
	if errs[1].Field != "Name" || errs[1].Type != "required" {
		t.Errorf("unexpected name error %+v", errs[1])
	}
}

func TestValidateVar(t *testing.T) {
	if errs := ValidateVar("email", "a@x.com", "email"); errs != nil {
		t.Fatalf("unexpected %+v", errs)
	}
	errs := ValidateVar("email", "bad", "email")
	if len(errs) != 1 || errs[0].Field != "email" {
		t.Fatalf("unexpected %+v", errs)
	}
}
