package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestMaskPhone(t *testing.T) {
	tests := map[string]string{
		"+919876543210": "+********3210",
		"9876543210":    "******3210",
		"123":           "123",
		"":              "",
	}

	for in, want := range tests {
		if got := MaskPhone(in); got != want {
			t.Fatalf("MaskPhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoggerMasksAndAddsCorrelationID(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	prev := logOutput
	logOutput = &buf
	t.Cleanup(func() { logOutput = prev })

	logger := newLogger(&Config{
		ServiceName: "onboard",
		LogLevel:    "debug",
		MaskFields:  []string{"access_token"},
		PhoneFields: []string{"phone"},
	}, nil)

	ctx := SetCorrelationID(context.Background(), "cid-1")

	// Act
	logger.InfoContext(ctx, "otp verified",
		"phone", "+919876543210",
		"access_token", "secret",
		"body", `{"phone":"9876543210","purpose":"login"}`,
	)

	// Assert
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["phone"] != "+********3210" {
		t.Fatalf("phone = %v", entry["phone"])
	}
	if entry["access_token"] != masked {
		t.Fatalf("access_token = %v", entry["access_token"])
	}
	if entry["body"] != `{"phone":"******3210","purpose":"login"}` {
		t.Fatalf("body = %v", entry["body"])
	}
	if entry["_cID"] != "cid-1" || entry["service"] != "onboard" {
		t.Fatalf("entry = %v", entry)
	}
	if entry["severity"] != slog.LevelInfo.String() {
		t.Fatalf("severity = %v", entry["severity"])
	}
}
