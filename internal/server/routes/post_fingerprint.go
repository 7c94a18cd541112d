package routes

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ethica-ai/ethica/backend/internal/server/middleware"
	"github.com/ethica-ai/ethica/backend/internal/storage"
	"github.com/ethica-ai/ethica/backend/pkg/dataset"
	"github.com/ethica-ai/ethica/backend/pkg/fingerprint"
	"github.com/ethica-ai/ethica/backend/pkg/logger"
)

// GenerateFingerprintHandler computes the dataset fingerprint of a
// session and persists it next to the upload.
func GenerateFingerprintHandler(c echo.Context) error {
	type fingerprintBody struct {
		SessionID string `json:"session_id" validate:"required"`
	}

	type fingerprintResponse struct {
		Message     string                   `json:"message"`
		Fingerprint *fingerprint.Fingerprint `json:"fingerprint,omitempty"`
	}

	data := new(fingerprintBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, fingerprintResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, fingerprintResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	info, err := findDatasetFile(ctx, app.Store, data.SessionID)
	if err != nil {
		return c.JSON(http.StatusNotFound, fingerprintResponse{Message: "Session not found"})
	}

	raw, err := app.Store.Get(ctx, data.SessionID, info.Name)
	if err != nil {
		logger.Error("Failed to read dataset", "session_id", data.SessionID, "err", err)
		return c.JSON(engineErrorStatus(err), fingerprintResponse{Message: "Failed to read dataset"})
	}

	format, err := dataset.FormatFromFilename(info.Name)
	if err != nil {
		return c.JSON(http.StatusBadRequest, fingerprintResponse{Message: "Unsupported dataset format"})
	}

	table, err := app.Loader.Load(raw, format)
	if err != nil {
		logger.Error("Failed to parse dataset", "session_id", data.SessionID, "err", err)
		return c.JSON(engineErrorStatus(err), fingerprintResponse{Message: "Failed to parse dataset"})
	}

	fp := fingerprint.FromBytes(raw, table.RowCount(), table.ColumnCount())
	fpBytes, err := json.Marshal(fp)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, fingerprintResponse{Message: "Internal server error"})
	}
	if err := app.Store.Put(ctx, data.SessionID, storage.FingerprintFile, bytes.NewReader(fpBytes)); err != nil {
		logger.Error("Failed to store fingerprint", "session_id", data.SessionID, "err", err)
		return c.JSON(http.StatusInternalServerError, fingerprintResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, fingerprintResponse{
		Message:     "Fingerprint generated successfully",
		Fingerprint: fp,
	})
}
