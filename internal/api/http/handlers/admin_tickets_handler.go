package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AdminTicketsHandler exposes the triage dashboard endpoints.
type AdminTicketsHandler struct {
	tickets    *service.TicketService
	assignment *service.AssignmentService
}

// NewAdminTicketsHandler constructs handler.
func NewAdminTicketsHandler(ticketService *service.TicketService, assignmentService *service.AssignmentService) *AdminTicketsHandler {
	return &AdminTicketsHandler{tickets: ticketService, assignment: assignmentService}
}

// ListTickets GET /admin/tickets.
func (h *AdminTicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	tickets, err := h.tickets.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.TicketFromDomain(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /admin/tickets/:id. Attachment URLs arrive presigned.
func (h *AdminTicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.tickets.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// UpdateDisposition PATCH /admin/tickets/:id/disposition.
func (h *AdminTicketsHandler) UpdateDisposition(c *fiber.Ctx) error {
	value, err := parseFieldValue(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.UpdateDisposition(c.Context(), c.Params("id"), value)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// UpdateIssueType PATCH /admin/tickets/:id/issue-type.
func (h *AdminTicketsHandler) UpdateIssueType(c *fiber.Ctx) error {
	value, err := parseFieldValue(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.UpdateIssueTypeL2(c.Context(), c.Params("id"), value)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketFromDomain(ticket)})
}

// UpdatePriority PATCH /admin/tickets/:id/priority.
func (h *AdminTicketsHandler) UpdatePriority(c *fiber.Ctx) error {
	return h.simpleFieldUpdate(c, h.tickets.UpdatePriority)
}

// UpdateRemarks PATCH /admin/tickets/:id/remarks.
func (h *AdminTicketsHandler) UpdateRemarks(c *fiber.Ctx) error {
	return h.simpleFieldUpdate(c, h.tickets.UpdateRemarks)
}

// UpdateExtRemarks PATCH /admin/tickets/:id/ext-remarks.
func (h *AdminTicketsHandler) UpdateExtRemarks(c *fiber.Ctx) error {
	return h.simpleFieldUpdate(c, h.tickets.UpdateExtRemarks)
}

// UpdateDescription PATCH /admin/tickets/:id/description.
func (h *AdminTicketsHandler) UpdateDescription(c *fiber.Ctx) error {
	return h.simpleFieldUpdate(c, h.tickets.UpdateDescription)
}

// UpdatePanel PATCH /admin/tickets/:id/panel.
func (h *AdminTicketsHandler) UpdatePanel(c *fiber.Ctx) error {
	return h.simpleFieldUpdate(c, h.tickets.UpdatePanel)
}

// UpdateSubmitter PATCH /admin/tickets/:id/submitter.
func (h *AdminTicketsHandler) UpdateSubmitter(c *fiber.Ctx) error {
	var req dto.UpdateSubmitterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	update := repository.SubmitterUpdate{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Designation: req.Designation,
	}
	if err := h.tickets.UpdateSubmitter(c.Context(), c.Params("id"), update); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// UpdateResolutionEstimate PATCH /admin/tickets/:id/resolution-estimate.
// A null estimate clears the field.
func (h *AdminTicketsHandler) UpdateResolutionEstimate(c *fiber.Ctx) error {
	var req dto.UpdateResolutionEstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.tickets.UpdateResolutionEstimate(c.Context(), c.Params("id"), req.Estimate); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// Assign POST /admin/tickets/:id/assign.
func (h *AdminTicketsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID == "" {
		return apperrors.NewValidationError("assignee_id required", nil)
	}
	if err := h.tickets.Assign(c.Context(), c.Params("id"), req.AssigneeID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"assigned": true}})
}

// ReassignInactive POST /admin/tickets/reassign-inactive. Partial failures
// report both the success count and the accumulated error text.
func (h *AdminTicketsHandler) ReassignInactive(c *fiber.Ctx) error {
	reassigned, err := h.assignment.ReassignFromInactiveAssignees(c.Context())
	resp := dto.ReassignResponse{Reassigned: reassigned}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(fiber.Map{"data": resp})
}

func (h *AdminTicketsHandler) simpleFieldUpdate(c *fiber.Ctx, update func(ctx context.Context, id, value string) error) error {
	value, err := parseFieldValue(c)
	if err != nil {
		return err
	}
	if err := update(c.Context(), c.Params("id"), value); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

func parseFieldValue(c *fiber.Ctx) (string, error) {
	var req dto.UpdateFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return "", apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Value) == "" {
		return "", apperrors.NewValidationError("value required", nil)
	}
	return req.Value, nil
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	filter.Statuses = splitQuery(c.Query("status"))
	filter.Dispositions = splitQuery(c.Query("disposition"))
	filter.Priorities = splitQuery(c.Query("priority"))
	filter.Panels = splitQuery(c.Query("panel"))
	if assignee := c.Query("assigned_to"); assignee != "" {
		filter.AssignedToID = &assignee
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func splitQuery(val string) []string {
	if val == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
