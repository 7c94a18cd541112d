package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ethica-ai/ethica/backend/internal/server/middleware"
	"github.com/ethica-ai/ethica/backend/internal/storage"
	"github.com/ethica-ai/ethica/backend/pkg/logger"
)

// GetSessionFilesHandler lists the uploaded dataset and generated
// results of a session.
func GetSessionFilesHandler(c echo.Context) error {
	type sessionFilesResponse struct {
		Message   string             `json:"message,omitempty"`
		SessionID string             `json:"session_id,omitempty"`
		Files     []storage.FileInfo `json:"files,omitempty"`
	}

	sessionID := c.Param("id")
	app := c.(*middleware.AppContext).App

	files, err := app.Store.List(c.Request().Context(), sessionID)
	if err != nil {
		if engineErrorStatus(err) == http.StatusNotFound {
			return c.JSON(http.StatusNotFound, sessionFilesResponse{Message: "Session not found"})
		}
		logger.Error("Failed to list session files", "session_id", sessionID, "err", err)
		return c.JSON(http.StatusInternalServerError, sessionFilesResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, sessionFilesResponse{
		SessionID: sessionID,
		Files:     files,
	})
}
