package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/ethica-ai/ethica/backend/internal/server/middleware"
	"github.com/ethica-ai/ethica/backend/internal/storage"
	"github.com/ethica-ai/ethica/backend/pkg/assessment"
	"github.com/ethica-ai/ethica/backend/pkg/dataset"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i any) error {
	return v.validator.Struct(i)
}

func newTestApp(t *testing.T) *middleware.App {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &middleware.App{
		Store:  store,
		Loader: dataset.NewLoader(),
	}
}

func newTestContext(t *testing.T, app *middleware.App, method, path, body string) (*middleware.AppContext, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return &middleware.AppContext{Context: c, App: app}, rec
}

func fullAnswersJSON(value int) string {
	answers := make(map[string]int, len(assessment.Questions))
	for _, q := range assessment.Questions {
		answers[q.ID] = value
	}
	raw, _ := json.Marshal(map[string]any{"answers": answers})
	return string(raw)
}

func TestScoreAssessmentHandler(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	c, rec := newTestContext(t, app, http.MethodPost, "/api/assessment/score", fullAnswersJSON(4))

	if err := ScoreAssessmentHandler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Result *assessment.Result `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Result == nil || resp.Result.Total != 100 {
		t.Fatalf("unexpected result: %+v", resp.Result)
	}
}

func TestScoreAssessmentHandlerIncomplete(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	c, rec := newTestContext(t, app, http.MethodPost, "/api/assessment/score", `{"answers":{"t1":4}}`)

	if err := ScoreAssessmentHandler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "assessment incomplete") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAnalyzeBiasHandler(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	ctx := context.Background()

	csv := "age,gender,approved\n34,male,1\n29,male,0\n41,male,1\n37,female,1\n"
	if err := app.Store.Put(ctx, "sess1", "applicants.csv", strings.NewReader(csv)); err != nil {
		t.Fatalf("put: %v", err)
	}

	c, rec := newTestContext(t, app, http.MethodPost, "/api/bias/analyze", `{"session_id":"sess1"}`)
	if err := AnalyzeBiasHandler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Profile *struct {
			RowCount int `json:"row_count"`
		} `json:"profile"`
		Bias *struct {
			Score int    `json:"score"`
			Level string `json:"level"`
		} `json:"bias_report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Profile == nil || resp.Profile.RowCount != 4 {
		t.Fatalf("unexpected profile: %+v", resp.Profile)
	}
	if resp.Bias == nil || resp.Bias.Score < 0 || resp.Bias.Score > 100 {
		t.Fatalf("unexpected bias report: %+v", resp.Bias)
	}

	// The result is also persisted in the session.
	if _, err := app.Store.Get(ctx, "sess1", storage.BiasResultsFile); err != nil {
		t.Fatalf("persisted result missing: %v", err)
	}
}

func TestAnalyzeBiasHandlerUnknownSession(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	c, rec := newTestContext(t, app, http.MethodPost, "/api/bias/analyze", `{"session_id":"missing"}`)

	if err := AnalyzeBiasHandler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAnalyzeBiasAsyncHandlerWithoutQueue(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	ctx := context.Background()
	if err := app.Store.Put(ctx, "sess1", "data.csv", strings.NewReader("a\n1\n")); err != nil {
		t.Fatalf("put: %v", err)
	}

	c, rec := newTestContext(t, app, http.MethodPost, "/api/bias/analyze/async", `{"session_id":"sess1"}`)
	if err := AnalyzeBiasAsyncHandler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestCompositeReportHandler(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	ctx := context.Background()

	csv := "age,gender,approved\n34,male,1\n29,male,0\n41,male,1\n37,female,1\n"
	if err := app.Store.Put(ctx, "sess1", "applicants.csv", strings.NewReader(csv)); err != nil {
		t.Fatalf("put: %v", err)
	}

	answers := make(map[string]int, len(assessment.Questions))
	for _, q := range assessment.Questions {
		answers[q.ID] = 4
	}
	body, _ := json.Marshal(map[string]any{
		"session_id": "sess1",
		"answers":    answers,
		"model_name": "credit-scoring-v2",
	})

	c, rec := newTestContext(t, app, http.MethodPost, "/api/report/composite", string(body))
	if err := CompositeReportHandler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ModelName string `json:"model_name"`
		Report    *struct {
			EthicalScore int    `json:"ethical_score"`
			Grade        string `json:"grade"`
		} `json:"report"`
		Fingerprint *struct {
			FileHash string `json:"file_hash"`
			Rows     int    `json:"rows"`
		} `json:"fingerprint"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.ModelName != "credit-scoring-v2" {
		t.Fatalf("model name = %q", resp.ModelName)
	}
	if resp.Report == nil || resp.Report.Grade == "" {
		t.Fatalf("unexpected report: %+v", resp.Report)
	}
	if resp.Fingerprint == nil || len(resp.Fingerprint.FileHash) != 64 || resp.Fingerprint.Rows != 4 {
		t.Fatalf("unexpected fingerprint: %+v", resp.Fingerprint)
	}

	if _, err := app.Store.Get(ctx, "sess1", storage.CompositeReportFile); err != nil {
		t.Fatalf("persisted report missing: %v", err)
	}
}

func TestGetSessionFilesHandlerNotFound(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	c, rec := newTestContext(t, app, http.MethodGet, "/api/sessions/missing/files", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := GetSessionFilesHandler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAnalyzeBiasHandlerZeroColumnJSON(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	ctx := context.Background()
	if err := app.Store.Put(ctx, "sess1", "records.json", strings.NewReader("[{}, {}]")); err != nil {
		t.Fatalf("put: %v", err)
	}

	c, rec := newTestContext(t, app, http.MethodPost, "/api/bias/analyze", `{"session_id":"sess1"}`)
	if err := AnalyzeBiasHandler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

// countingStore records how often dataset files are fetched.
type countingStore struct {
	storage.Store
	getCalls int
}

func (s *countingStore) Get(ctx context.Context, sessionID, name string) ([]byte, error) {
	s.getCalls++
	return s.Store.Get(ctx, sessionID, name)
}

func TestCompositeReportHandlerFetchesDatasetOnce(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	counting := &countingStore{Store: app.Store}
	app.Store = counting
	ctx := context.Background()

	csv := "age,gender,approved\n34,male,1\n29,male,0\n41,male,1\n37,female,1\n"
	if err := app.Store.Put(ctx, "sess1", "applicants.csv", strings.NewReader(csv)); err != nil {
		t.Fatalf("put: %v", err)
	}

	answers := make(map[string]int, len(assessment.Questions))
	for _, q := range assessment.Questions {
		answers[q.ID] = 3
	}
	body, _ := json.Marshal(map[string]any{
		"session_id": "sess1",
		"answers":    answers,
	})

	c, rec := newTestContext(t, app, http.MethodPost, "/api/report/composite", string(body))
	if err := CompositeReportHandler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if counting.getCalls != 1 {
		t.Fatalf("dataset fetched %d times, want 1", counting.getCalls)
	}
}

func TestDeleteSessionHandlerEvictsLoaderCache(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	ctx := context.Background()

	csv := "age,gender\n34,male\n29,female\n"
	if err := app.Store.Put(ctx, "sess1", "people.csv", strings.NewReader(csv)); err != nil {
		t.Fatalf("put: %v", err)
	}

	cached, err := app.Loader.Load([]byte(csv), dataset.FormatCSV)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	c, rec := newTestContext(t, app, http.MethodDelete, "/api/sessions/sess1", "")
	c.SetParamNames("id")
	c.SetParamValues("sess1")
	if err := DeleteSessionHandler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	// A cache hit would return the identical table pointer.
	reloaded, err := app.Loader.Load([]byte(csv), dataset.FormatCSV)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded == cached {
		t.Fatalf("table still cached after session deletion")
	}
}
