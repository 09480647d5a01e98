package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/onboard/internal/pkg/clock"
	"github.com/shandysiswandi/onboard/internal/pkg/config"
	"github.com/shandysiswandi/onboard/internal/pkg/goerror"
	"github.com/shandysiswandi/onboard/internal/pkg/jwt"
	"github.com/shandysiswandi/onboard/internal/pkg/uid"
)

type pingResponse struct {
	Pong bool `json:"pong"`
}

func (pingResponse) Message() string { return "pong" }

func newTestJWT(t *testing.T) *jwt.Symmetric {
	t.Helper()

	j, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("k", 64)),
		Issuer: "onboard",
		TTL:    time.Minute,
		Clock:  clock.New(),
		UUID:   uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("NewHS512() = %v", err)
	}
	return j
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func TestRouterPublicAndProtected(t *testing.T) {
	// Arrange
	j := newTestJWT(t)
	r := NewRouter(Config{UUID: uid.NewUUID(), JWT: j})
	r.Public(http.MethodPost, "/ping")
	r.POST("/ping", func(*Request) (any, error) { return pingResponse{Pong: true}, nil })
	r.GET("/me", func(req *Request) (any, error) {
		return map[string]string{"phone": jwt.GetAuth(req.Context()).Phone}, nil
	})

	token, _, err := j.Generate("+919876543210", "login")
	if err != nil {
		t.Fatalf("Generate() = %v", err)
	}

	// Act
	pub := httptest.NewRecorder()
	r.ServeHTTP(pub, httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(`{}`)))

	anon := httptest.NewRecorder()
	r.ServeHTTP(anon, httptest.NewRequest(http.MethodGet, "/me", nil))

	authReq := httptest.NewRequest(http.MethodGet, "/me", nil)
	authReq.Header.Set("Authorization", "Bearer "+token)
	auth := httptest.NewRecorder()
	r.ServeHTTP(auth, authReq)

	// Assert
	if pub.Code != http.StatusOK {
		t.Fatalf("public status = %d", pub.Code)
	}
	if got := decode(t, pub)["message"]; got != "pong" {
		t.Fatalf("public message = %v", got)
	}
	if pub.Header().Get(HeaderCorrelationID) == "" {
		t.Fatalf("correlation id header missing")
	}
	if anon.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", anon.Code)
	}
	if auth.Code != http.StatusOK {
		t.Fatalf("authorized status = %d", auth.Code)
	}
	data, _ := decode(t, auth)["data"].(map[string]any)
	if data["phone"] != "+919876543210" {
		t.Fatalf("data = %v", data)
	}
}

func TestRouterErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "business unauthorized", err: goerror.NewBusiness("nope", goerror.CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "too many", err: goerror.NewBusiness("slow down", goerror.CodeTooManyRequest), want: http.StatusTooManyRequests},
		{name: "bad gateway", err: goerror.NewBusiness("sms down", goerror.CodeBadGateway), want: http.StatusBadGateway},
		{name: "invalid format", err: goerror.NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "plain error", err: http.ErrBodyNotAllowed, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			r := NewRouter(Config{})
			r.Public(http.MethodPost, "/fail")
			r.POST("/fail", func(*Request) (any, error) { return nil, tt.err })
			rec := httptest.NewRecorder()

			// Act
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fail", nil))

			// Assert
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRouterMaintenance(t *testing.T) {
	// Arrange
	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  maintenance:\n    endpoints: [\"/down\"]\n"))
	if err != nil {
		t.Fatalf("NewViperFromBytes() = %v", err)
	}
	r := NewRouter(Config{Config: cfg})
	r.Public(http.MethodGet, "/down")
	r.Public(http.MethodGet, "/up")
	r.GET("/down", func(*Request) (any, error) { return pingResponse{}, nil })
	r.GET("/up", func(*Request) (any, error) { return pingResponse{}, nil })

	// Act
	down := httptest.NewRecorder()
	r.ServeHTTP(down, httptest.NewRequest(http.MethodGet, "/down", nil))
	up := httptest.NewRecorder()
	r.ServeHTTP(up, httptest.NewRequest(http.MethodGet, "/up", nil))

	// Assert
	if down.Code != http.StatusServiceUnavailable {
		t.Fatalf("maintenance status = %d", down.Code)
	}
	if up.Code != http.StatusOK {
		t.Fatalf("open status = %d", up.Code)
	}
}

func TestRouterRecoversPanic(t *testing.T) {
	// Arrange
	r := NewRouter(Config{})
	r.Public(http.MethodGet, "/boom")
	r.GET("/boom", func(*Request) (any, error) { panic("boom") })
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	// Assert
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDecodeBodyRejectsUnknownFields(t *testing.T) {
	// Arrange
	req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":"1","extra":true}`))}
	var dst struct {
		Phone string `json:"phone"`
	}

	// Act
	err := req.DecodeBody(&dst)

	// Assert
	if err == nil {
		t.Fatalf("DecodeBody() error = nil")
	}
}

func TestChainOrder(t *testing.T) {
	// Arrange
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "h") }), mark("a"), nil, mark("b"))

	// Act
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	if strings.Join(order, ",") != "a,b,h" {
		t.Fatalf("order = %v", order)
	}
}

func TestRealIP(t *testing.T) {
	// Arrange
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	// Act
	got := realIP(req)

	// Assert
	if got != "203.0.113.7" {
		t.Fatalf("realIP() = %q", got)
	}
}
