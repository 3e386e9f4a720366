// Package messaging publishes and consumes domain events over a pluggable
// broker (NATS, NSQ, Kafka, Google Pub/Sub or an in-process bus).
//
// Consumers name a group: members of the same group share the stream, each
// message being handled by one member. The group maps to a NATS queue group,
// an NSQ channel, a Kafka consumer group or a Pub/Sub subscription.
package messaging
