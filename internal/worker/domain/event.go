package domain

import (
	"github.com/cuongbtq/jobster-api/internal/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EventMessage is a decoded job event together with the delivery that carried it
type EventMessage struct {
	Event    events.JobEvent
	Delivery amqp.Delivery
}

// Redelivered reports whether the broker has handed this message out before
func (m *EventMessage) Redelivered() bool {
	return m.Delivery.Redelivered
}
