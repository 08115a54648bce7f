package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/api/dto"
	"github.com/spec-kit/staff-directory/internal/auth"
	"github.com/spec-kit/staff-directory/internal/service"
)

// StaffHandler exposes the directory endpoints.
type StaffHandler struct {
	directory *service.DirectoryService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(directory *service.DirectoryService) *StaffHandler {
	return &StaffHandler{directory: directory}
}

// List handles GET /staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	items, err := h.directory.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.StaffListResponse{Items: items})
}

// Get handles GET /staff/:id.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	staff, err := h.directory.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.StaffResponse{Staff: staff})
}

// Create handles POST /staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	staff, err := h.directory.Create(adminContext(c), jsonBody(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateStaffResponse{ID: staff.ID, Staff: staff})
}

// Update handles PUT /staff/:id.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	staff, err := h.directory.Update(adminContext(c), c.Params("id"), jsonBody(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.StaffResponse{Staff: staff})
}

// Delete handles DELETE /staff/:id.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	if err := h.directory.Delete(adminContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{OK: true})
}

func adminContext(c *fiber.Ctx) context.Context {
	role := ""
	if claims, ok := auth.ClaimsFromContext(c); ok {
		role = claims.Role
	}
	return requestContext(c, role)
}
