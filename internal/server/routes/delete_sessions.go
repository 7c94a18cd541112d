package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ethica-ai/ethica/backend/internal/server/middleware"
	"github.com/ethica-ai/ethica/backend/pkg/dataset"
	"github.com/ethica-ai/ethica/backend/pkg/logger"
)

// DeleteSessionHandler removes a session with all its files.
func DeleteSessionHandler(c echo.Context) error {
	type deleteSessionResponse struct {
		Message string `json:"message"`
	}

	sessionID := c.Param("id")
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	// Drop the parsed dataset from the loader cache before the files go
	// away, otherwise deleted uploads pin memory for the server lifetime.
	if info, err := findDatasetFile(ctx, app.Store, sessionID); err == nil {
		if format, err := dataset.FormatFromFilename(info.Name); err == nil {
			if raw, err := app.Store.Get(ctx, sessionID, info.Name); err == nil {
				app.Loader.Evict(raw, format)
			}
		}
	}

	if err := app.Store.Delete(ctx, sessionID); err != nil {
		if engineErrorStatus(err) == http.StatusNotFound {
			return c.JSON(http.StatusNotFound, deleteSessionResponse{Message: "Session not found"})
		}
		logger.Error("Failed to delete session", "session_id", sessionID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteSessionResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, deleteSessionResponse{Message: "Session deleted successfully"})
}
