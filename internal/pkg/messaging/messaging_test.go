package messaging

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestNewFromDriverUnknown(t *testing.T) {
	// Act
	_, err := NewFromDriver(context.Background(), "rabbit", FactoryOptions{})

	// Assert
	if !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("NewFromDriver() error = %v, want ErrUnknownDriver", err)
	}
}

func TestNewFromDriverMissingConfig(t *testing.T) {
	tests := []struct {
		driver string
		want   error
	}{
		{driver: DriverNATS, want: ErrNATSURLRequired},
		{driver: DriverKafka, want: ErrKafkaBrokersRequired},
		{driver: DriverNSQ, want: ErrNSQProducerAddrRequired},
		{driver: DriverGooglePubSub, want: ErrPubSubProjectIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			// Act
			_, err := NewFromDriver(context.Background(), tt.driver, FactoryOptions{})

			// Assert
			if !errors.Is(err, tt.want) {
				t.Fatalf("NewFromDriver(%q) error = %v, want %v", tt.driver, err, tt.want)
			}
		})
	}
}

func TestMemoryPublish(t *testing.T) {
	// Arrange
	m := NewMemory()
	msg := OutgoingMessage{Body: []byte(`{"a":1}`), Headers: []Header{{Key: "cID", Value: []byte("abc")}}}

	// Act
	res, err := m.Publish(context.Background(), "otp.issued", msg)

	// Assert
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if res.Topic != "otp.issued" || res.MessageID != "1" {
		t.Fatalf("Publish() result = %+v", res)
	}
	got := m.Messages()
	if len(got) != 1 || got[0].Destination != "otp.issued" {
		t.Fatalf("Messages() = %+v", got)
	}
	if v, ok := got[0].Message.HeaderValue("cID"); !ok || v != "abc" {
		t.Fatalf("HeaderValue(cID) = %q, %v", v, ok)
	}
}

func TestMemoryClosed(t *testing.T) {
	// Arrange
	m := NewMemory()
	_ = m.Close()

	// Act
	_, err := m.Publish(context.Background(), "otp.issued", OutgoingMessage{})

	// Assert
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("Publish() error = %v, want io.ErrClosedPipe", err)
	}
}

func TestDrivers(t *testing.T) {
	// Act
	got := Drivers()

	// Assert
	want := []string{DriverGooglePubSub, DriverKafka, DriverMemory, DriverNATS, DriverNSQ}
	if len(got) != len(want) {
		t.Fatalf("Drivers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Drivers()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKafkaPublishGuards(t *testing.T) {
	// Arrange
	k, err := NewKafka(KafkaConfig{Brokers: []string{"127.0.0.1:1"}})
	if err != nil {
		t.Fatalf("NewKafka() error = %v", err)
	}

	// Act
	_, topicErr := k.Publish(context.Background(), "", OutgoingMessage{Body: []byte("x")})
	_, delayErr := k.Publish(context.Background(), "otp.issued", OutgoingMessage{Delay: 1})
	closeErr := k.Close()
	_, closedErr := k.Publish(context.Background(), "otp.issued", OutgoingMessage{})

	// Assert
	if !errors.Is(topicErr, ErrKafkaTopicRequired) {
		t.Fatalf("empty topic error = %v", topicErr)
	}
	if !errors.Is(delayErr, ErrUnsupported) {
		t.Fatalf("delay error = %v", delayErr)
	}
	if closeErr != nil {
		t.Fatalf("Close() error = %v", closeErr)
	}
	if err := k.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if !errors.Is(closedErr, io.ErrClosedPipe) {
		t.Fatalf("publish after close error = %v", closedErr)
	}
}
