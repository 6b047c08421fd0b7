package handler

import "github.com/gofiber/fiber/v2"

// GuideHandler serves the help page's static settings.
type GuideHandler struct {
	videoLink string
}

func NewGuideHandler(videoLink string) *GuideHandler {
	return &GuideHandler{videoLink: videoLink}
}

// GET /api/guide/video-link
func (h *GuideHandler) GetVideoLink(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"video_link": h.videoLink})
}

// GET /healthz
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}
