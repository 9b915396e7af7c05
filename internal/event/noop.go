package event

import "context"

// NoopPublisher is used when no broker is configured and in tests.
type NoopPublisher struct{}

func NewNoopPublisher() EventPublisher {
	return NoopPublisher{}
}

func (NoopPublisher) PublishCustomerCreated(context.Context, CustomerCreatedEvent) error { return nil }
func (NoopPublisher) PublishCustomerUpdated(context.Context, CustomerUpdatedEvent) error { return nil }
func (NoopPublisher) PublishPaymentRecorded(context.Context, PaymentRecordedEvent) error { return nil }
func (NoopPublisher) PublishLoanActivated(context.Context, LoanActivatedEvent) error     { return nil }

var _ EventPublisher = NoopPublisher{}
