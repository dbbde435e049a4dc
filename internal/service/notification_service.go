package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/events"
)

// NotificationGateway sends templated messages to a submitter's phone.
type NotificationGateway interface {
	SendTemplated(ctx context.Context, name, phone, templateName string, variables map[string]string) error
}

// dispositionTemplates maps a disposition to the WhatsApp template that
// announces it. Dispositions without an entry send nothing.
var dispositionTemplates = map[string]string{
	"New":           "ticket_generated_c1",
	"In Progress":   "ticket_in_progress_c1",
	"No Response 1": "ticket_no_response1_c1",
	"Resolved":      "ticket_resolved_c1",
	"No Response 2": "ticket_no_response2_c1",
}

const extRemarksTemplate = "ticket_ext_remarks_c1"

// NotificationService listens for ticket events and pushes WhatsApp
// updates to submitters. Delivery failures are logged and dropped; a
// messaging outage must never surface as a ticket-mutation error.
type NotificationService struct {
	gateway NotificationGateway
	logger  *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(gateway NotificationGateway, logger *zap.Logger) *NotificationService {
	return &NotificationService{gateway: gateway, logger: logger}
}

// RegisterHandlers wires the service into the dispatcher.
func (s *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketCreated, s.handleTicketCreated)
	dispatcher.Subscribe(events.EventDispositionChanged, s.handleDispositionChanged)
	dispatcher.Subscribe(events.EventExternalRemarksUpdate, s.handleExternalRemarks)
}

func (s *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	s.send(ctx, payload.SubmitterName, payload.Phone, dispositionTemplates["New"], payload.TicketRef)
	return nil
}

func (s *NotificationService) handleDispositionChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DispositionChangedPayload)
	if !ok {
		return nil
	}
	templateName, mapped := dispositionTemplates[payload.NewDisposition]
	if !mapped {
		s.logger.Debug("no template for disposition; skipping notification",
			zap.String("disposition", payload.NewDisposition))
		return nil
	}
	s.send(ctx, payload.SubmitterName, payload.Phone, templateName, payload.TicketRef)
	return nil
}

func (s *NotificationService) handleExternalRemarks(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ExternalRemarksPayload)
	if !ok {
		return nil
	}
	s.send(ctx, payload.SubmitterName, payload.Phone, extRemarksTemplate, payload.TicketRef)
	return nil
}

func (s *NotificationService) send(ctx context.Context, name, phone, templateName, ticketRef string) {
	variables := map[string]string{
		"Name":      name,
		"ticket_id": ticketRef,
	}
	if err := s.gateway.SendTemplated(ctx, name, phone, templateName, variables); err != nil {
		s.logger.Error("whatsapp notification failed",
			zap.String("template", templateName),
			zap.String("ticket_ref", ticketRef),
			zap.Error(err))
	}
}
