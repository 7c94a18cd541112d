package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ethica-ai/ethica/backend/internal/server/middleware"
	"github.com/ethica-ai/ethica/backend/internal/storage"
	"github.com/ethica-ai/ethica/backend/pkg/assessment"
	"github.com/ethica-ai/ethica/backend/pkg/bias"
	"github.com/ethica-ai/ethica/backend/pkg/fingerprint"
	"github.com/ethica-ai/ethica/backend/pkg/grade"
	"github.com/ethica-ai/ethica/backend/pkg/logger"
)

// CompositeReportHandler combines the questionnaire score with the
// dataset bias analysis into the final graded report.
func CompositeReportHandler(c echo.Context) error {
	type reportBody struct {
		SessionID           string         `json:"session_id" validate:"required"`
		Answers             map[string]int `json:"answers" validate:"required"`
		ModelName           string         `json:"model_name"`
		ProtectedAttributes []string       `json:"protected_attributes"`
		TargetColumn        string         `json:"target_column"`
	}

	type reportResponse struct {
		Message     string                   `json:"message"`
		ModelName   string                   `json:"model_name,omitempty"`
		GeneratedAt time.Time                `json:"generated_at,omitempty"`
		Report      *grade.CompositeReport   `json:"report,omitempty"`
		Bias        *bias.Report             `json:"bias_report,omitempty"`
		Fingerprint *fingerprint.Fingerprint `json:"fingerprint,omitempty"`
	}

	data := new(reportBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, reportResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, reportResponse{Message: "Invalid request body"})
	}

	result, err := assessment.Score(data.Answers)
	if err != nil {
		var incomplete *assessment.IncompleteAssessmentError
		if errors.As(err, &incomplete) {
			return c.JSON(http.StatusBadRequest, reportResponse{Message: incomplete.Error()})
		}
		return c.JSON(http.StatusInternalServerError, reportResponse{Message: "Internal server error"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	prof, biasReport, raw, err := analyzeSession(c, &analyzeBody{
		SessionID:           data.SessionID,
		ProtectedAttributes: data.ProtectedAttributes,
		TargetColumn:        data.TargetColumn,
	})
	if err != nil {
		status := engineErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("Composite report failed", "session_id", data.SessionID, "err", err)
			return c.JSON(status, reportResponse{Message: "Internal server error"})
		}
		return c.JSON(status, reportResponse{Message: err.Error()})
	}

	response := reportResponse{
		Message:     "Composite report generated successfully",
		ModelName:   data.ModelName,
		GeneratedAt: time.Now().UTC(),
		Report:      grade.Grade(result.Total, result.Dimensions, biasReport.Score),
		Bias:        biasReport,
		Fingerprint: fingerprint.FromBytes(raw, prof.RowCount, prof.ColumnCount),
	}

	reportBytes, err := json.Marshal(response)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, reportResponse{Message: "Internal server error"})
	}
	if err := app.Store.Put(ctx, data.SessionID, storage.CompositeReportFile, bytes.NewReader(reportBytes)); err != nil {
		logger.Error("Failed to store composite report", "session_id", data.SessionID, "err", err)
		return c.JSON(http.StatusInternalServerError, reportResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, response)
}
