package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/storage"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// TicketsHandler serves the public submission form and status page.
type TicketsHandler struct {
	service *service.TicketService
	limits  config.S3Config
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, limits config.S3Config) *TicketsHandler {
	return &TicketsHandler{service: ticketService, limits: limits}
}

// SubmitTicket POST /tickets. Multipart form: text fields plus optional
// file parts under "attachments".
func (h *TicketsHandler) SubmitTicket(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form required", nil)
	}

	input := service.SubmitTicketInput{
		Name:        formValue(form, "name"),
		Phone:       formValue(form, "phone"),
		Designation: formValue(form, "designation"),
		Panel:       formValue(form, "panel"),
		Description: formValue(form, "description"),
	}
	if email := formValue(form, "email"); email != "" {
		input.Email = &email
	}
	if l2 := formValue(form, "issue_type_l2"); l2 != "" {
		input.IssueTypeL2 = &l2
	}
	if source := formValue(form, "source"); source != "" {
		input.Source = &source
	}

	files := form.File["attachments"]
	if len(files) > h.limits.MaxFilesPerTicket {
		return apperrors.NewValidationError("too many attachments",
			map[string]any{"max": h.limits.MaxFilesPerTicket})
	}
	for _, fh := range files {
		if fh.Size > h.limits.MaxFileSizeBytes {
			return apperrors.NewValidationError("attachment too large",
				map[string]any{"file": fh.Filename, "max_bytes": h.limits.MaxFileSizeBytes})
		}
		upload, err := readUpload(fh)
		if err != nil {
			return apperrors.NewValidationError("unreadable attachment",
				map[string]any{"file": fh.Filename})
		}
		input.Attachments = append(input.Attachments, upload)
	}

	ticket, err := h.service.Submit(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SubmitTicketResponse{
		ID:        ticket.ID,
		TicketID:  ticket.TicketID,
		Status:    ticket.Status,
		CreatedAt: ticket.CreatedTime,
	}})
}

// GetStatus GET /tickets/:ticketID. Looks up by the human-readable id and
// returns the submitter-facing view only.
func (h *TicketsHandler) GetStatus(c *fiber.Ctx) error {
	ticketID := strings.TrimSpace(c.Params("ticketID"))
	if ticketID == "" {
		return apperrors.NewValidationError("ticket id required", nil)
	}
	ticket, err := h.service.GetByTicketID(c.Context(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketStatusFromDomain(ticket)})
}

func formValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func readUpload(fh *multipart.FileHeader) (storage.Upload, error) {
	file, err := fh.Open()
	if err != nil {
		return storage.Upload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return storage.Upload{}, err
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return storage.Upload{
		FileName:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
