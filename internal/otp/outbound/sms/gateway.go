package sms

import (
	"context"
	"time"

	"github.com/shandysiswandi/onboard/internal/pkg/instrument"
	"github.com/shandysiswandi/onboard/internal/pkg/sms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultTimeout = 10 * time.Second

type Gateway struct {
	client  sms.Gateway
	timeout time.Duration
	ins     instrument.Instrumentation
}

func NewGateway(client sms.Gateway, timeout time.Duration, ins instrument.Instrumentation) *Gateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{client: client, timeout: timeout, ins: ins}
}

// Send delivers body to the E.164 number and returns the provider message id.
// The call is bounded by the gateway timeout even when ctx has no deadline.
func (g *Gateway) Send(ctx context.Context, to, body string) (string, error) {
	ctx, span := g.ins.Tracer("otp.outbound.sms").Start(ctx, "Send")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	receipt, err := g.client.Send(ctx, to, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.String("sms.provider", receipt.Provider))
	return receipt.ID, nil
}
