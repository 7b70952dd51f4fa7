package handler

import (
	"io"

	"eau-clair-web/internal/metrics"
	"eau-clair-web/internal/upload"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type UploadHandler struct {
	uploader *upload.Uploader
}

func NewUploadHandler(u *upload.Uploader) *UploadHandler {
	return &UploadHandler{uploader: u}
}

// Upload stores the multipart "file" field and answers {url} or {error}.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		metrics.Uploads.WithLabelValues(metrics.ResultError).Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file provided"})
	}

	f := upload.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
	}
	if f.Size > upload.MaxImageSize {
		metrics.Uploads.WithLabelValues(metrics.ResultError).Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": upload.ErrImageTooLarge.Error()})
	}

	src, err := fh.Open()
	if err != nil {
		metrics.Uploads.WithLabelValues(metrics.ResultError).Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not read file"})
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, upload.MaxImageSize+1))
	if err != nil {
		metrics.Uploads.WithLabelValues(metrics.ResultError).Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not read file"})
	}

	w, err := h.uploader.Upload(c.UserContext(), f, data)
	metrics.Uploads.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		if errors.Is(err, upload.ErrNotAnImage) || errors.Is(err, upload.ErrImageTooLarge) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		zap.L().Error("image upload failed", zap.String("file", f.Name), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": userMessage(err)})
	}
	return c.JSON(fiber.Map{"url": w.URL()})
}
