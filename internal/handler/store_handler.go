package handler

import (
	"gazi-tiles/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type StoreHandler struct {
	service service.StoreService
	log     *zap.Logger
}

func NewStoreHandler(s service.StoreService, log *zap.Logger) *StoreHandler {
	return &StoreHandler{service: s, log: orNop(log)}
}

// GET /api/store/all?code=&company=
func (h *StoreHandler) GetStore(c *fiber.Ctx) error {
	rows, err := h.service.List(c.UserContext(), service.StoreFilter{
		Code:    c.Query("code"),
		Company: c.Query("company"),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": rows})
}

// GET /api/store/:code
func (h *StoreHandler) GetStoreItem(c *fiber.Ctx) error {
	row, err := h.service.Get(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": row})
}
