package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AdminAuthHandler exposes the dashboard login endpoint.
type AdminAuthHandler struct {
	admins *service.AdminService
}

// NewAdminAuthHandler constructs handler.
func NewAdminAuthHandler(adminService *service.AdminService) *AdminAuthHandler {
	return &AdminAuthHandler{admins: adminService}
}

// Login POST /admin/login.
func (h *AdminAuthHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Password == "" {
		return apperrors.NewValidationError("name and password required", nil)
	}

	result, err := h.admins.Login(c.Context(), req.Name, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}
