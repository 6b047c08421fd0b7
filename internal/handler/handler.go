package handler

import (
	"errors"

	"gazi-tiles/internal/middleware"
	"gazi-tiles/internal/repository"
	"gazi-tiles/internal/service"
	"gazi-tiles/internal/stock"
	"gazi-tiles/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func getActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{ID: "system", Name: "Unknown"}
	if v, ok := c.Locals(middleware.LocalUserID).(string); ok {
		actor.ID = v
	}
	if v, ok := c.Locals(middleware.LocalUserEmail).(string); ok {
		actor.Email = v
	}
	if v, ok := c.Locals(middleware.LocalUserName).(string); ok {
		actor.Name = v
	}
	if v, ok := c.Locals(middleware.LocalUserRole).(string); ok {
		actor.Role = v
	}
	return actor
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func pageQuery(c *fiber.Ctx) repository.Page {
	return repository.Page{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 20)}.Normalize()
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(400).JSON(fiber.Map{"success": false, "message": message})
}

var (
	unprocessable = []error{
		stock.ErrDuplicateLine,
		service.ErrEmptySale,
		service.ErrInvalidPurchase,
		service.ErrInvalidDate,
	}
	missing = []error{
		service.ErrCompanyNotFound,
		service.ErrProductNotFound,
		service.ErrStoreNotFound,
		service.ErrPurchaseNotFound,
		service.ErrSaleNotFound,
		service.ErrUserNotFound,
	}
	conflicts = []error{
		service.ErrDuplicateCompany,
		service.ErrDuplicateProduct,
		service.ErrDuplicatePurchase,
		service.ErrDuplicateInvoice,
		service.ErrDuplicateUser,
		service.ErrStockWouldGoNegative,
	}
)

func matchAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// respondError maps service errors onto HTTP statuses. Anything unexpected is
// logged and hidden behind a 500.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var (
		failure *validator.Failure
		saleErr *stock.SaleError
		kind    stock.ErrorKind
	)
	switch {
	case errors.As(err, &failure):
		return c.Status(422).JSON(fiber.Map{"success": false, "message": failure.Error(), "kind": "validation", "errors": failure.Fields})
	case errors.As(err, &saleErr):
		return c.Status(422).JSON(fiber.Map{
			"success":      false,
			"message":      saleErr.Error(),
			"kind":         saleErr.Kind.String(),
			"product_code": saleErr.ProductCode,
			"available":    saleErr.Available,
		})
	case errors.As(err, &kind):
		return c.Status(422).JSON(fiber.Map{"success": false, "message": kind.Error(), "kind": kind.String()})
	case matchAny(err, unprocessable):
		return c.Status(422).JSON(fiber.Map{"success": false, "message": err.Error(), "kind": "invalid_input"})
	case matchAny(err, missing):
		return c.Status(404).JSON(fiber.Map{"success": false, "message": err.Error(), "kind": "not_found"})
	case matchAny(err, conflicts):
		return c.Status(409).JSON(fiber.Map{"success": false, "message": err.Error(), "kind": "conflict"})
	}

	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(500).JSON(fiber.Map{"success": false, "message": "Internal Server Error"})
}
