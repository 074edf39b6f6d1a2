package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/acml/acmlctl/internal/metrics"
	dto "github.com/prometheus/client_model/go"
)

type staticTokens struct {
	token string
}

func (s *staticTokens) Token() string { return s.token }

func TestAuthorizationHeaderAttached(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, &staticTokens{token: "tok-abc"}, 5*time.Second)
	var out []map[string]any
	if err := c.Get(context.Background(), "/members/members/", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if gotAuth != "Token tok-abc" {
		t.Errorf("expected Authorization 'Token tok-abc', got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("expected X-Request-ID to be set")
	}
}

func TestNoAuthorizationHeaderWhenLoggedOut(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &staticTokens{}, 5*time.Second)
	var out map[string]any
	if err := c.Get(context.Background(), "/token-auth/", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestUnauthorizedSurfacedWithoutRetry(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid token."}`))
	}))
	defer srv.Close()

	m := metrics.New()
	c := New(srv.URL, &staticTokens{token: "expired"}, 5*time.Second)
	c.SetMetrics(m)

	var out []map[string]any
	err := c.Get(context.Background(), "/events/events/", &out)
	if err == nil {
		t.Fatal("expected error on 401")
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected errors.Is(err, ErrUnauthorized), got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly 1 request (no retry), got %d", n)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Detail != "Invalid token." {
		t.Errorf("expected detail from body, got %q", apiErr.Detail)
	}

	if got := counterValue(t, m, "acmlctl_auth_failures_total", nil); got != 1 {
		t.Errorf("expected 1 auth failure recorded, got %v", got)
	}
}

func TestFieldValidationErrorsParsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"phone": ["member with this phone already exists."], "email": ["Enter a valid email address."]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &staticTokens{token: "tok"}, 5*time.Second)
	err := c.Post(context.Background(), "/members/members/", map[string]string{}, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if !apiErr.IsValidation() {
		t.Error("expected IsValidation() to be true")
	}
	if got := apiErr.FieldError("phone"); got != "member with this phone already exists." {
		t.Errorf("unexpected phone error: %q", got)
	}
	if got := apiErr.FieldError("email"); got != "Enter a valid email address." {
		t.Errorf("unexpected email error: %q", got)
	}
	if got := apiErr.FieldError("postal_code"); got != "" {
		t.Errorf("expected empty message for unknown field, got %q", got)
	}
}

func TestNonFieldErrorsBecomeDetail(t *testing.T) {
	body := []byte(`{"non_field_errors": ["Unable to log in with provided credentials."]}`)
	apiErr := parseAPIError(http.StatusBadRequest, body)
	if apiErr.Detail != "Unable to log in with provided credentials." {
		t.Errorf("expected non_field_errors promoted to detail, got %q", apiErr.Detail)
	}
	if len(apiErr.Fields) != 0 {
		t.Errorf("expected no field errors, got %v", apiErr.Fields)
	}
}

func TestGetBlobFilename(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake receipt")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="recu_fiscal_42.pdf"`)
		w.Write(pdf)
	}))
	defer srv.Close()

	c := New(srv.URL, &staticTokens{token: "tok"}, 5*time.Second)
	data, filename, err := c.GetBlob(context.Background(), "/finance/donations/42/download_receipt/")
	if err != nil {
		t.Fatalf("GetBlob failed: %v", err)
	}
	if string(data) != string(pdf) {
		t.Error("expected body passed through unchanged")
	}
	if filename != "recu_fiscal_42.pdf" {
		t.Errorf("expected filename from content-disposition, got %q", filename)
	}
}

func TestRequestMetricsRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	m := metrics.New()
	c := New(srv.URL, &staticTokens{token: "tok"}, 5*time.Second)
	c.SetMetrics(m)

	var out []map[string]any
	for i := 0; i < 3; i++ {
		if err := c.Get(context.Background(), "/finance/campaigns/", &out); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	}

	labels := map[string]string{"method": "GET", "resource": "finance", "status_code": "200"}
	if got := counterValue(t, m, "acmlctl_api_requests_total", labels); got != 3 {
		t.Errorf("expected 3 requests recorded, got %v", got)
	}
}

func TestResourceLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/members/members/42/", "members"},
		{"/finance/donations/", "finance"},
		{"/token-auth/", "token-auth"},
	}
	for _, tt := range tests {
		if got := resourceLabel(tt.path); got != tt.want {
			t.Errorf("resourceLabel(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// counterValue gathers the metrics registry and returns the value of the
// named counter with the given labels, or 0 when absent.
func counterValue(t *testing.T, m *metrics.Metrics, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gathering metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchLabels(metric, labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(metric *dto.Metric, labels map[string]string) bool {
	got := make(map[string]string, len(metric.GetLabel()))
	for _, lp := range metric.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range labels {
		if got[k] != v {
			return false
		}
	}
	return true
}
