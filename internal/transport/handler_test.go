package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"palm-reader-api/internal/config"
	apperrors "palm-reader-api/internal/errors"
	"palm-reader-api/pkg/models"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeReadingService struct {
	result json.RawMessage
	err    error
	calls  int
}

func (f *fakeReadingService) Analyze(ctx context.Context, req models.AnalyzeRequest) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeCheckout struct {
	url    string
	err    error
	origin string
}

func (f *fakeCheckout) CreateSession(ctx context.Context, origin string) (string, error) {
	f.origin = origin
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeMailer struct {
	err   error
	calls int
	last  models.SendEmailRequest
}

func (f *fakeMailer) SendReading(ctx context.Context, req models.SendEmailRequest) error {
	f.calls++
	f.last = req
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		RequestTimeout:     5 * time.Second,
		MaxRequestBodySize: 1024 * 1024,
		AllowedOrigins:     []string{"*"},
	}
}

func newTestHandler(readings *fakeReadingService, checkout *fakeCheckout, mail *fakeMailer) http.Handler {
	if readings == nil {
		readings = &fakeReadingService{}
	}
	if checkout == nil {
		checkout = &fakeCheckout{}
	}
	if mail == nil {
		mail = &fakeMailer{}
	}
	return NewHandler(readings, checkout, mail, testConfig())
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := doRequest(t, newTestHandler(nil, nil, nil), http.MethodGet, "/health", "", nil)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body["status"] != "available" {
		t.Errorf("Expected status available, got %v", body["status"])
	}
}

func TestAnalyze_Success(t *testing.T) {
	readings := &fakeReadingService{result: json.RawMessage(`{"atmosphere": "douce", "is_premium": false}`)}
	w := doRequest(t, newTestHandler(readings, nil, nil), http.MethodPost, "/analyze",
		`{"image": "data:image/jpeg;base64,aGVsbG8=", "mode": "free"}`, nil)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		t.Errorf("Expected JSON content type, got %q", w.Header().Get("Content-Type"))
	}
	if w.Body.String() != `{"atmosphere": "douce", "is_premium": false}` {
		t.Errorf("Expected service result verbatim, got %s", w.Body.String())
	}
}

func TestAnalyze_InvalidBody(t *testing.T) {
	readings := &fakeReadingService{}
	w := doRequest(t, newTestHandler(readings, nil, nil), http.MethodPost, "/analyze", `{not json`, nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if readings.calls != 0 {
		t.Errorf("Expected no service call for malformed body, got %d", readings.calls)
	}
}

func TestAnalyze_ValidationErrorStatus(t *testing.T) {
	readings := &fakeReadingService{err: apperrors.NewValidationError("image is required", nil)}
	w := doRequest(t, newTestHandler(readings, nil, nil), http.MethodPost, "/analyze", `{"image": ""}`, nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse error response: %v", err)
	}
	if !strings.Contains(resp.Message, "image is required") {
		t.Errorf("Expected validation message, got %q", resp.Message)
	}
}

func TestAnalyze_AggregateErrorStatus(t *testing.T) {
	readings := &fakeReadingService{err: apperrors.NewAggregateError("all candidate models failed")}
	w := doRequest(t, newTestHandler(readings, nil, nil), http.MethodPost, "/analyze",
		`{"image": "data:image/jpeg;base64,aGVsbG8="}`, nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestCheckout_Success(t *testing.T) {
	checkout := &fakeCheckout{url: "https://checkout.stripe.com/c/pay/cs_test_123"}
	w := doRequest(t, newTestHandler(nil, checkout, nil), http.MethodPost, "/checkout", "",
		map[string]string{"Origin": "https://liremamain.fr"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.CheckoutResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.URL != checkout.url {
		t.Errorf("Expected session URL, got %q", resp.URL)
	}
	if checkout.origin != "https://liremamain.fr" {
		t.Errorf("Expected request origin to be forwarded, got %q", checkout.origin)
	}
}

func TestCheckout_MissingConfiguration(t *testing.T) {
	checkout := &fakeCheckout{err: apperrors.NewConfigurationError("Stripe configuration missing")}
	w := doRequest(t, newTestHandler(nil, checkout, nil), http.MethodPost, "/checkout", "", nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestSendEmail_Success(t *testing.T) {
	mail := &fakeMailer{}
	w := doRequest(t, newTestHandler(nil, nil, mail), http.MethodPost, "/send-email",
		`{"email": "user@example.com", "result": {"atmosphere": "douce"}, "date": "01/09/2026"}`, nil)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.SendEmailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success flag in response")
	}
	if mail.last.Email != "user@example.com" {
		t.Errorf("Expected recipient to be forwarded, got %q", mail.last.Email)
	}
}

func TestSendEmail_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"result": {"atmosphere": "x"}}`},
		{"missing result", `{"email": "user@example.com"}`},
		{"empty body", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mail := &fakeMailer{}
			w := doRequest(t, newTestHandler(nil, nil, mail), http.MethodPost, "/send-email", tt.body, nil)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
			if mail.calls != 0 {
				t.Errorf("Expected no dispatch for invalid request, got %d", mail.calls)
			}
		})
	}
}

func TestSendEmail_VendorErrorStatus(t *testing.T) {
	mail := &fakeMailer{err: apperrors.NewVendorError("Brevo error: Key not found", http.StatusUnauthorized, nil)}
	w := doRequest(t, newTestHandler(nil, nil, mail), http.MethodPost, "/send-email",
		`{"email": "user@example.com", "result": {"atmosphere": "x"}}`, nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected vendor status to propagate, got %d", w.Code)
	}
}
