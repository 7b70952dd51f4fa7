package handler

import (
	"eau-clair-web/internal/mailer"
	"eau-clair-web/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotifyHandler struct {
	mail mailer.WelcomeSender
}

func NewNotifyHandler(m mailer.WelcomeSender) *NotifyHandler {
	return &NotifyHandler{mail: m}
}

type welcomeRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
	Name  string `json:"name" form:"name" validate:"notblank"`
}

func (h *NotifyHandler) SendWelcomeEmail(c *fiber.Ctx) error {
	var req welcomeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Field '" + errs[0].FailedField + "' failed on tag '" + errs[0].Tag + "'"})
	}

	if err := h.mail.SendWelcome(c.UserContext(), req.Email, req.Name); err != nil {
		zap.L().Error("send welcome email", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}
