package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ethica-ai/ethica/backend/pkg/assessment"
)

// ScoreAssessmentHandler scores a completed ethics questionnaire.
func ScoreAssessmentHandler(c echo.Context) error {
	type assessmentBody struct {
		Answers map[string]int `json:"answers" validate:"required"`
	}

	type assessmentResponse struct {
		Message string             `json:"message"`
		Result  *assessment.Result `json:"result,omitempty"`
	}

	data := new(assessmentBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, assessmentResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, assessmentResponse{Message: "Invalid request body"})
	}

	result, err := assessment.Score(data.Answers)
	if err != nil {
		var incomplete *assessment.IncompleteAssessmentError
		if errors.As(err, &incomplete) {
			return c.JSON(http.StatusBadRequest, assessmentResponse{Message: incomplete.Error()})
		}
		return c.JSON(http.StatusInternalServerError, assessmentResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, assessmentResponse{
		Message: "Assessment scored successfully",
		Result:  result,
	})
}
