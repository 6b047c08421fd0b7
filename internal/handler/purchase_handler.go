package handler

import (
	"gazi-tiles/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PurchaseHandler struct {
	service service.PurchaseService
	log     *zap.Logger
}

func NewPurchaseHandler(s service.PurchaseService, log *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{service: s, log: orNop(log)}
}

// POST /api/purchase/create
func (h *PurchaseHandler) CreatePurchase(c *fiber.Ctx) error {
	var in service.PurchaseInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	purchase, err := h.service.Create(c.UserContext(), in, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "message": "Purchase recorded", "purchase": purchase})
}

// PATCH /api/purchase/update/:id
func (h *PurchaseHandler) UpdatePurchase(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid purchase ID")
	}
	var in service.PurchaseInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	purchase, err := h.service.Update(c.UserContext(), id, in, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Purchase updated", "purchase": purchase})
}

// DELETE /api/purchase/:id
func (h *PurchaseHandler) DeletePurchase(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid purchase ID")
	}
	if err := h.service.Delete(c.UserContext(), id, getActor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Purchase deleted"})
}

// GET /api/purchase/history?page=&limit=
func (h *PurchaseHandler) GetHistory(c *fiber.Ctx) error {
	page, err := h.service.History(c.UserContext(), pageQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       page.Items,
		"total":      page.Total,
		"page":       page.Page,
		"totalPages": page.TotalPages,
	})
}

// GET /api/purchase/group/custom-date?date=
func (h *PurchaseHandler) GroupByDate(c *fiber.Ctx) error {
	rows, err := h.service.GroupByDate(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": rows})
}
