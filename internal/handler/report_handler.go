package handler

import (
	"bytes"
	"fmt"

	"gazi-tiles/internal/export"
	"gazi-tiles/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service service.ReportService
	log     *zap.Logger
}

func NewReportHandler(s service.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{service: s, log: orNop(log)}
}

// GET /api/report/godown?date=
func (h *ReportHandler) GetGodown(c *fiber.Ctx) error {
	g, err := h.service.Godown(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": g})
}

// GET /api/report/godown.xlsx?date=
func (h *ReportHandler) DownloadGodown(c *fiber.Ctx) error {
	g, err := h.service.Godown(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	var buf bytes.Buffer
	if err := export.WriteGodown(&buf, *g); err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="godown-%s.xlsx"`, g.Date))
	return c.Send(buf.Bytes())
}
