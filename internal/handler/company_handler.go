package handler

import (
	"gazi-tiles/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CompanyHandler struct {
	service service.CompanyService
	log     *zap.Logger
}

func NewCompanyHandler(s service.CompanyService, log *zap.Logger) *CompanyHandler {
	return &CompanyHandler{service: s, log: orNop(log)}
}

// GET /api/company/all
func (h *CompanyHandler) GetCompanies(c *fiber.Ctx) error {
	companies, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Companies fetched", "companies": companies})
}

// POST /api/company/create
func (h *CompanyHandler) CreateCompany(c *fiber.Ctx) error {
	var req struct {
		Company string `json:"company"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	company, err := h.service.Create(c.UserContext(), req.Company, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "message": "Company created", "company": company})
}
