package handler

import (
	"gazi-tiles/internal/model"
	"gazi-tiles/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	service service.UserService
	log     *zap.Logger
}

func NewUserHandler(s service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{service: s, log: orNop(log)}
}

// GetUserByEmail returns the role on record for an email address
// GET /api/users/email/:email
func (h *UserHandler) GetUserByEmail(c *fiber.Ctx) error {
	user, err := h.service.GetByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user.ToResponse()})
}

// CreateUser handles user creation
// POST /api/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req model.User
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.service.Create(c.UserContext(), &req, getActor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"user":    user.ToResponse(),
	})
}

// GetUsers lists every user
// GET /api/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]model.UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse()
	}
	return c.JSON(fiber.Map{"success": true, "users": out})
}
