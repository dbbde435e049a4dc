package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// DropdownsHandler serves the option taxonomy, publicly for form selects
// and fully for the admin settings page.
type DropdownsHandler struct {
	dropdowns *service.DropdownService
}

// NewDropdownsHandler constructs handler.
func NewDropdownsHandler(dropdownService *service.DropdownService) *DropdownsHandler {
	return &DropdownsHandler{dropdowns: dropdownService}
}

// ListByType GET /dropdowns/:type. Active options only.
func (h *DropdownsHandler) ListByType(c *fiber.Ctx) error {
	options, err := h.dropdowns.ListByType(c.Context(), c.Params("type"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.OptionsFromDomain(options)})
}

// ListGrouped GET /admin/dropdowns. Every option, inactive included.
func (h *DropdownsHandler) ListGrouped(c *fiber.Ctx) error {
	grouped, err := h.dropdowns.ListGrouped(c.Context())
	if err != nil {
		return err
	}
	resp := make(map[string][]dto.DropdownOptionResponse, len(grouped))
	for key, options := range grouped {
		resp[key] = dto.OptionsFromDomain(options)
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create POST /admin/dropdowns.
func (h *DropdownsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDropdownOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	option, err := h.dropdowns.Create(c.Context(), service.CreateOptionInput{
		DropdownType: req.DropdownType,
		Value:        req.Value,
		ParentID:     req.ParentID,
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.OptionFromDomain(option)})
}

// Update PUT /admin/dropdowns/:id.
func (h *DropdownsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateDropdownOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	option, err := h.dropdowns.Update(c.Context(), c.Params("id"), service.UpdateOptionInput{
		Value:     req.Value,
		ParentID:  req.ParentID,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.OptionFromDomain(option)})
}

// Deactivate DELETE /admin/dropdowns/:id. Soft-deactivation only.
func (h *DropdownsHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.dropdowns.Deactivate(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deactivated": true}})
}
