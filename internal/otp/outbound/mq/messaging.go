package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/onboard/internal/otp/usecase"
	"github.com/shandysiswandi/onboard/internal/pkg/instrument"
	"github.com/shandysiswandi/onboard/internal/pkg/messaging"
	"github.com/shandysiswandi/onboard/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishIssued(ctx context.Context, msg usecase.IssuedEvent) error {
	ctx, span := m.ins.Tracer("otp.outbound.mq").Start(ctx, "PublishIssued")
	defer span.End()

	return m.publish(ctx, span, event.OtpIssuedDestination, msg.Phone, event.OtpIssuedMessage{
		RecordID:    msg.RecordID,
		Phone:       msg.Phone,
		Purpose:     msg.Purpose.String(),
		ExpiresAt:   msg.ExpiresAt,
		DeliveryRef: msg.DeliveryRef,
		Resend:      msg.Resend,
	})
}

func (m *Messaging) PublishVerified(ctx context.Context, msg usecase.VerifiedEvent) error {
	ctx, span := m.ins.Tracer("otp.outbound.mq").Start(ctx, "PublishVerified")
	defer span.End()

	return m.publish(ctx, span, event.OtpVerifiedDestination, msg.Phone, event.OtpVerifiedMessage{
		RecordID:   msg.RecordID,
		Phone:      msg.Phone,
		Purpose:    msg.Purpose.String(),
		VerifiedAt: msg.VerifiedAt,
	})
}

func (m *Messaging) PublishSwept(ctx context.Context, msg usecase.SweptEvent) error {
	ctx, span := m.ins.Tracer("otp.outbound.mq").Start(ctx, "PublishSwept")
	defer span.End()

	return m.publish(ctx, span, event.OtpSweptDestination, strconv.FormatInt(msg.SweptAt.Unix(), 10), event.OtpSweptMessage{
		Deleted:    msg.Deleted,
		Archived:   msg.Archived,
		ArchiveKey: msg.ArchiveKey,
		SweptAt:    msg.SweptAt,
	})
}

// publish keys messages by phone so brokers that partition keep one
// number's lifecycle in order.
func (m *Messaging) publish(ctx context.Context, span trace.Span, destination, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:        body,
		Key:         []byte(key),
		OrderingKey: key,
		Headers:     []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
