package routes

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/ethica-ai/ethica/backend/internal/server/middleware"
	"github.com/ethica-ai/ethica/backend/pkg/dataset"
	"github.com/ethica-ai/ethica/backend/pkg/logger"
)

// UploadDatasetHandler accepts a multipart dataset upload and opens a
// new analysis session for it.
func UploadDatasetHandler(c echo.Context) error {
	type uploadResponse struct {
		Message    string  `json:"message"`
		SessionID  string  `json:"session_id,omitempty"`
		Filename   string  `json:"filename,omitempty"`
		FileSizeMB float64 `json:"file_size_mb,omitempty"`
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: "Missing dataset file"})
	}

	if _, err := dataset.FormatFromFilename(file.Filename); err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: "Unsupported dataset format"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{Message: "Invalid request body"})
	}
	defer src.Close()

	sessionID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Internal server error"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()
	if err := app.Store.Put(ctx, sessionID, file.Filename, src); err != nil {
		logger.Error("Failed to store upload", "session_id", sessionID, "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{Message: "Internal server error"})
	}

	logger.Info("Dataset uploaded", "session_id", sessionID, "filename", file.Filename)
	return c.JSON(http.StatusOK, uploadResponse{
		Message:    "Dataset uploaded successfully",
		SessionID:  sessionID,
		Filename:   file.Filename,
		FileSizeMB: math.Round(float64(file.Size)/(1<<20)*100) / 100,
	})
}
