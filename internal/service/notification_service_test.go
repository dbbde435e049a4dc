package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/support-desk/internal/events"
)

func dispatchWith(gw *fakeGateway) events.Dispatcher {
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(gw, testLogger()).RegisterHandlers(dispatcher)
	return dispatcher
}

func TestDispositionChangeSendsMappedTemplate(t *testing.T) {
	tests := []struct {
		disposition  string
		wantTemplate string
	}{
		{"New", "ticket_generated_c1"},
		{"In Progress", "ticket_in_progress_c1"},
		{"No Response 1", "ticket_no_response1_c1"},
		{"Resolved", "ticket_resolved_c1"},
		{"No Response 2", "ticket_no_response2_c1"},
	}

	for _, tt := range tests {
		t.Run(tt.disposition, func(t *testing.T) {
			gw := &fakeGateway{}
			dispatcher := dispatchWith(gw)

			_ = dispatcher.Publish(context.Background(), events.Event{
				Type: events.EventDispositionChanged,
				Payload: events.DispositionChangedPayload{
					TicketRef:      "A-010125-7",
					SubmitterName:  "Asha",
					Phone:          "9876543210",
					NewDisposition: tt.disposition,
				},
			})

			if len(gw.sent) != 1 {
				t.Fatalf("messages sent = %d, want 1", len(gw.sent))
			}
			if gw.sent[0].template != tt.wantTemplate {
				t.Errorf("template = %s, want %s", gw.sent[0].template, tt.wantTemplate)
			}
			if gw.sent[0].vars["ticket_id"] != "A-010125-7" || gw.sent[0].vars["Name"] != "Asha" {
				t.Errorf("unexpected body values %v", gw.sent[0].vars)
			}
		})
	}
}

func TestUnmappedDispositionSendsNothing(t *testing.T) {
	gw := &fakeGateway{}
	dispatcher := dispatchWith(gw)

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventDispositionChanged,
		Payload: events.DispositionChangedPayload{
			NewDisposition: "Escalated",
		},
	})

	if len(gw.sent) != 0 {
		t.Fatalf("messages sent = %d, want 0", len(gw.sent))
	}
}

func TestTicketCreatedSendsGeneratedTemplate(t *testing.T) {
	gw := &fakeGateway{}
	dispatcher := dispatchWith(gw)

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventTicketCreated,
		Payload: events.TicketCreatedPayload{
			TicketRef:     "A-010125-9",
			SubmitterName: "Ravi",
			Phone:         "9876500000",
		},
	})

	if len(gw.sent) != 1 || gw.sent[0].template != "ticket_generated_c1" {
		t.Fatalf("unexpected sends %+v", gw.sent)
	}
}

func TestGatewayFailureNeverPropagates(t *testing.T) {
	gw := &fakeGateway{sendErr: errors.New("gateway down")}
	dispatcher := dispatchWith(gw)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventTicketCreated,
		Payload: events.TicketCreatedPayload{
			TicketRef:     "A-010125-9",
			SubmitterName: "Ravi",
			Phone:         "9876500000",
		},
	})
	if err != nil {
		t.Fatalf("publish returned %v, want nil", err)
	}
}
