package routes

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ethica-ai/ethica/backend/internal/queue"
	"github.com/ethica-ai/ethica/backend/internal/server/middleware"
	"github.com/ethica-ai/ethica/backend/internal/storage"
	"github.com/ethica-ai/ethica/backend/pkg/bias"
	"github.com/ethica-ai/ethica/backend/pkg/dataset"
	"github.com/ethica-ai/ethica/backend/pkg/logger"
	"github.com/ethica-ai/ethica/backend/pkg/profile"
)

type analyzeBody struct {
	SessionID           string   `json:"session_id" validate:"required"`
	ProtectedAttributes []string `json:"protected_attributes"`
	TargetColumn        string   `json:"target_column"`
}

// AnalyzeBiasHandler profiles the session dataset and runs the bias
// analysis synchronously.
func AnalyzeBiasHandler(c echo.Context) error {
	type analyzeResponse struct {
		Message string                  `json:"message"`
		Profile *profile.DatasetProfile `json:"profile,omitempty"`
		Bias    *bias.Report            `json:"bias_report,omitempty"`
	}

	data := new(analyzeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	prof, report, _, err := analyzeSession(c, data)
	if err != nil {
		status := engineErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("Bias analysis failed", "session_id", data.SessionID, "err", err)
			return c.JSON(status, analyzeResponse{Message: "Internal server error"})
		}
		return c.JSON(status, analyzeResponse{Message: err.Error()})
	}

	result := queue.AnalysisResult{Profile: prof, Bias: report}
	resultBytes, err := json.Marshal(result)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, analyzeResponse{Message: "Internal server error"})
	}
	if err := app.Store.Put(ctx, data.SessionID, storage.BiasResultsFile, bytes.NewReader(resultBytes)); err != nil {
		logger.Error("Failed to store analysis result", "session_id", data.SessionID, "err", err)
		return c.JSON(http.StatusInternalServerError, analyzeResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, analyzeResponse{
		Message: "Bias analysis completed",
		Profile: prof,
		Bias:    report,
	})
}

// AnalyzeBiasAsyncHandler publishes the analysis job to the queue and
// returns immediately; the worker persists the result.
func AnalyzeBiasAsyncHandler(c echo.Context) error {
	type analyzeAsyncResponse struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id,omitempty"`
	}

	data := new(analyzeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeAsyncResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, analyzeAsyncResponse{Message: "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	if app.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, analyzeAsyncResponse{Message: "Async analysis is not available"})
	}

	ctx := c.Request().Context()
	info, err := findDatasetFile(ctx, app.Store, data.SessionID)
	if err != nil {
		return c.JSON(http.StatusNotFound, analyzeAsyncResponse{Message: "Session not found"})
	}

	msg := queue.AnalysisMessage{
		SessionID:           data.SessionID,
		Filename:            info.Name,
		ProtectedAttributes: data.ProtectedAttributes,
		TargetColumn:        data.TargetColumn,
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, analyzeAsyncResponse{Message: "Internal server error"})
	}

	if err := queue.PublishFIFO(app.Queue, queue.AnalysisQueue, msgBytes); err != nil {
		logger.Error("Failed to publish analysis job", "session_id", data.SessionID, "err", err)
		return c.JSON(http.StatusInternalServerError, analyzeAsyncResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, analyzeAsyncResponse{
		Message:   "Bias analysis queued",
		SessionID: data.SessionID,
	})
}

// analyzeSession loads, profiles and analyzes the session dataset. The
// raw dataset bytes are returned alongside the results so callers that
// need them do not fetch the file a second time.
func analyzeSession(c echo.Context, data *analyzeBody) (*profile.DatasetProfile, *bias.Report, []byte, error) {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	info, err := findDatasetFile(ctx, app.Store, data.SessionID)
	if err != nil {
		return nil, nil, nil, err
	}

	raw, err := app.Store.Get(ctx, data.SessionID, info.Name)
	if err != nil {
		return nil, nil, nil, err
	}

	format, err := dataset.FormatFromFilename(info.Name)
	if err != nil {
		return nil, nil, nil, err
	}

	table, err := app.Loader.Load(raw, format)
	if err != nil {
		return nil, nil, nil, err
	}

	prof, err := profile.Profile(table, profile.Options{
		ProtectedAttributes: data.ProtectedAttributes,
		TargetColumn:        data.TargetColumn,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return prof, bias.Analyze(prof, bias.DefaultConfig()), raw, nil
}
