package sms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPSend(t *testing.T) {
	// Arrange
	var gotTo, gotBody, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() = %v", err)
		}
		gotTo = r.PostForm.Get("to")
		gotBody = r.PostForm.Get("body")
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message_id":"m-1"}`))
	}))
	defer srv.Close()

	g, err := NewHTTP(HTTPConfig{URL: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewHTTP() error = %v", err)
	}

	// Act
	rc, err := g.Send(context.Background(), "+919876543210", "Your code is 123456")

	// Assert
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if rc.ID != "m-1" || rc.Provider != DriverHTTP {
		t.Fatalf("Send() receipt = %+v", rc)
	}
	if gotTo != "+919876543210" || gotBody != "Your code is 123456" || gotKey != "secret" {
		t.Fatalf("server saw to=%q body=%q key=%q", gotTo, gotBody, gotKey)
	}
}

func TestHTTPSendRejectedStatus(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	g, _ := NewHTTP(HTTPConfig{URL: srv.URL})

	// Act
	_, err := g.Send(context.Background(), "+919876543210", "x")

	// Assert
	var de *DeliveryError
	if !errors.As(err, &de) || de.Provider != DriverHTTP {
		t.Fatalf("Send() error = %v, want DeliveryError", err)
	}
}

func TestHTTPSendTimeout(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)
	g, _ := NewHTTP(HTTPConfig{URL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Act
	_, err := g.Send(ctx, "+919876543210", "x")

	// Assert
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Send() error = %v, want deadline exceeded", err)
	}
}

func TestLogSend(t *testing.T) {
	// Arrange
	g := NewLog()

	// Act
	first, err1 := g.Send(context.Background(), "+919876543210", "a")
	second, err2 := g.Send(context.Background(), "+919876543210", "b")

	// Assert
	if err1 != nil || err2 != nil {
		t.Fatalf("Send() errors = %v, %v", err1, err2)
	}
	if first.ID != "log-1" || second.ID != "log-2" {
		t.Fatalf("receipts = %q, %q", first.ID, second.ID)
	}
	if _, err := g.Send(context.Background(), "", "c"); !errors.Is(err, ErrRecipientRequired) {
		t.Fatalf("Send(\"\") error = %v", err)
	}
}

func TestNewFromDriver(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		want   error
	}{
		{name: "log default", driver: "", want: nil},
		{name: "twilio missing creds", driver: DriverTwilio, want: ErrTwilioConfig},
		{name: "http missing url", driver: DriverHTTP, want: ErrHTTPURLRequired},
		{name: "unknown", driver: "pigeon", want: ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := NewFromDriver(tt.driver, FactoryOptions{})

			// Assert
			if !errors.Is(err, tt.want) {
				t.Fatalf("NewFromDriver(%q) error = %v, want %v", tt.driver, err, tt.want)
			}
		})
	}
}
