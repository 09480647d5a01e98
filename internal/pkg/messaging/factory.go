package messaging

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	// DriverNSQ selects the NSQ backend.
	DriverNSQ = "nsq"
	// DriverNATS selects the NATS backend.
	DriverNATS = "nats"
	// DriverKafka selects the Kafka backend.
	DriverKafka = "kafka"
	// DriverGooglePubSub selects the Google Pub/Sub backend.
	DriverGooglePubSub = "google-pubsub"
	// DriverMemory keeps messages in process.
	DriverMemory = "memory"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions carries the settings of every broker; only the section of
// the selected driver is read.
type FactoryOptions struct {
	NSQ    NSQConfig
	Kafka  KafkaConfig
	NATS   NATSConfig
	PubSub PubSubConfig
}

type constructor func(ctx context.Context, opts FactoryOptions) (Client, error)

var constructors = map[string]constructor{
	DriverNSQ: func(_ context.Context, opts FactoryOptions) (Client, error) {
		return NewNSQ(opts.NSQ)
	},
	DriverKafka: func(_ context.Context, opts FactoryOptions) (Client, error) {
		return NewKafka(opts.Kafka)
	},
	DriverNATS: func(_ context.Context, opts FactoryOptions) (Client, error) {
		return NewNATS(opts.NATS)
	},
	DriverGooglePubSub: func(ctx context.Context, opts FactoryOptions) (Client, error) {
		return NewPubSub(ctx, opts.PubSub)
	},
	DriverMemory: func(context.Context, FactoryOptions) (Client, error) {
		return NewMemory(), nil
	},
}

// Drivers lists the supported driver names in sorted order.
func Drivers() []string {
	names := lo.Keys(constructors)
	slices.Sort(names)
	return names
}

// NewFromDriver builds the event publisher named by driver. An empty name
// selects the in-memory publisher.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Client, error) {
	name := strings.TrimSpace(driver)
	if name == "" {
		name = DriverMemory
	}

	build, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	return build(ctx, opts)
}
