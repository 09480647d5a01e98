package sms

import (
	"context"
	"errors"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ErrTwilioConfig is returned when credentials or the sender are missing.
var ErrTwilioConfig = errors.New("sms: twilio account sid, auth token and from are required")

// TwilioConfig configures the Twilio gateway.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	// From is a Twilio number or messaging service sid.
	From string
}

// Twilio sends messages with the Twilio REST API.
type Twilio struct {
	client *twilio.RestClient
	from   string
}

// NewTwilio builds a Twilio gateway.
func NewTwilio(cfg TwilioConfig) (*Twilio, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil, ErrTwilioConfig
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &Twilio{client: client, from: cfg.From}, nil
}

type twilioResult struct {
	sid string
	err error
}

// Send creates a message. The REST client has no context support, so the
// call is abandoned when ctx is done.
func (t *Twilio) Send(ctx context.Context, to, body string) (Receipt, error) {
	if to == "" {
		return Receipt{}, ErrRecipientRequired
	}

	params := &twilioApi.CreateMessageParams{}
	if strings.HasPrefix(t.from, "MG") {
		params.SetMessagingServiceSid(t.from)
	} else {
		params.SetFrom(t.from)
	}
	params.SetTo(to)
	params.SetBody(body)

	done := make(chan twilioResult, 1)
	go func() {
		resp, err := t.client.Api.CreateMessage(params)
		if err != nil {
			done <- twilioResult{err: err}
			return
		}
		sid := ""
		if resp.Sid != nil {
			sid = *resp.Sid
		}
		done <- twilioResult{sid: sid}
	}()

	select {
	case <-ctx.Done():
		return Receipt{}, &DeliveryError{Provider: DriverTwilio, Err: ctx.Err()}
	case res := <-done:
		if res.err != nil {
			return Receipt{}, &DeliveryError{Provider: DriverTwilio, Err: res.err}
		}
		return Receipt{ID: res.sid, Provider: DriverTwilio}, nil
	}
}
