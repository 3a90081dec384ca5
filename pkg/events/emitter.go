// Package events handles event emission for agreement and ticket lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/shadyhoon/RentEase/pkg/kafka"
	"github.com/shadyhoon/RentEase/pkg/models"
	"github.com/shadyhoon/RentEase/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter publishes lifecycle events. Emission is best effort, a broker
// failure never fails the request that triggered it. A nil producer disables
// emission entirely.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

func (e *Emitter) emit(ctx context.Context, eventType, entityType, entityID, actorID string, data any) {
	if e == nil || e.producer == nil {
		return
	}

	payload := map[string]any{
		"schema_version": SchemaVersion,
	}
	if data != nil {
		payload["data"] = data
	}
	dataJSON, _ := json.Marshal(payload)

	event := &kafka.LifecycleEvent{
		EventType:  eventType,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		Data:       dataJSON,
	}

	if err := e.producer.PublishLifecycleEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithField("event_type", eventType).Error("Failed to emit lifecycle event")
	}
}

// EmitAgreementSent emits an event when a landlord sends an agreement to a tenant
func (e *Emitter) EmitAgreementSent(ctx context.Context, agreement *models.Agreement) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitAgreementSent")
	defer span.End()

	e.emit(ctx, "agreement.sent", "agreement", agreement.ID, agreement.LandlordID, map[string]any{
		"tenant_email":     agreement.TenantEmail,
		"property_address": agreement.PropertyAddress,
	})
}

// EmitAgreementApproved emits an event when a tenant approves an agreement
func (e *Emitter) EmitAgreementApproved(ctx context.Context, agreement *models.Agreement, actorID string) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitAgreementApproved")
	defer span.End()

	e.emit(ctx, "agreement.approved", "agreement", agreement.ID, actorID, map[string]any{
		"landlord_id": agreement.LandlordID,
	})
}

// EmitAgreementExpired emits an event when an agreement lapses past its end date
func (e *Emitter) EmitAgreementExpired(ctx context.Context, agreement *models.Agreement) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitAgreementExpired")
	defer span.End()

	e.emit(ctx, "agreement.expired", "agreement", agreement.ID, "", map[string]any{
		"end_date": agreement.EndDate,
	})
}

// EmitAgreementDeleted emits an event when a landlord removes an expired agreement
func (e *Emitter) EmitAgreementDeleted(ctx context.Context, agreement *models.Agreement, actorID string) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitAgreementDeleted")
	defer span.End()

	e.emit(ctx, "agreement.deleted", "agreement", agreement.ID, actorID, nil)
}

// EmitTicketCreated emits an event when a tenant raises a maintenance ticket
func (e *Emitter) EmitTicketCreated(ctx context.Context, ticket *models.Ticket) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitTicketCreated")
	defer span.End()

	e.emit(ctx, "ticket.created", "ticket", ticket.ID, ticket.TenantUserID, map[string]any{
		"priority": ticket.Priority,
	})
}

// EmitTicketStatusChanged emits an event when a ticket moves through its lifecycle
func (e *Emitter) EmitTicketStatusChanged(ctx context.Context, ticket *models.Ticket, actorID string) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitTicketStatusChanged")
	defer span.End()

	e.emit(ctx, "ticket.status_changed", "ticket", ticket.ID, actorID, map[string]any{
		"status":          ticket.Status,
		"approval_status": ticket.ApprovalStatus,
	})
}

// EmitPaymentCompleted emits an event when a rent payment is verified
func (e *Emitter) EmitPaymentCompleted(ctx context.Context, payment *models.Payment) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitPaymentCompleted")
	defer span.End()

	e.emit(ctx, "payment.completed", "payment", payment.ID, payment.TenantUserID, map[string]any{
		"agreement_id": payment.AgreementID,
		"amount":       payment.Amount,
		"currency":     payment.Currency,
	})
}
