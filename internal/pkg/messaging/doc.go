// Package messaging publishes messages to a broker without tying callers to
// a specific one.
//
// NATS, Kafka, NSQ and Google Pub/Sub are supported, plus an in-memory
// publisher for local runs and tests. Pick one with NewFromDriver.
package messaging
