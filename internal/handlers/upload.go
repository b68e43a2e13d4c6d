package handlers

import (
	"errors"

	"fraudwatch/internal/services/upload"
	"fraudwatch/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type UploadHandler struct {
	uploadService UploadService
	log           *logrus.Logger
}

func NewUploadHandler(uploadSvc UploadService, log *logrus.Logger) *UploadHandler {
	return &UploadHandler{uploadService: uploadSvc, log: log}
}

// Upload stores the images sent in the multipart "files" field. Rejected
// files are reported per file and do not fail the request.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "Expected a multipart form")
	}

	report, err := h.uploadService.Save(c.UserContext(), form.File["files"])
	if err != nil {
		if errors.Is(err, upload.ErrNoFiles) {
			return response.BadRequest(c, "No files uploaded")
		}
		return failure(c, h.log, err, "Failed to store files")
	}
	return response.Success(c, "Upload processed", report)
}
