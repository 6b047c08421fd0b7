package handler

import (
	"gazi-tiles/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SaleHandler struct {
	service service.SaleService
	log     *zap.Logger
}

func NewSaleHandler(s service.SaleService, log *zap.Logger) *SaleHandler {
	return &SaleHandler{service: s, log: orNop(log)}
}

// POST /api/sale/create
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var in service.SaleInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	sale, err := h.service.Create(c.UserContext(), in, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "message": "Sale created", "sale": sale})
}

// GET /api/sale?page=&limit=
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), pageQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"sales":      page.Items,
		"totalPages": page.TotalPages,
		"total":      page.Total,
		"page":       page.Page,
	})
}

// GET /api/sale/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid sale ID")
	}
	sale, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(sale)
}

// PUT /api/sale/update/:id
func (h *SaleHandler) UpdateSale(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid sale ID")
	}
	var in service.SaleUpdate
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	sale, err := h.service.Update(c.UserContext(), id, in, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Sale updated", "sale": sale})
}

// DELETE /api/sale/:id
func (h *SaleHandler) DeleteSale(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid sale ID")
	}
	if err := h.service.Delete(c.UserContext(), id, getActor(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Sale deleted, stock restored"})
}

// GET /api/sale/group/custom-date?date=
func (h *SaleHandler) GroupByDate(c *fiber.Ctx) error {
	rows, err := h.service.GroupByDate(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": rows})
}
