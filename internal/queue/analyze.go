package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethica-ai/ethica/backend/internal/storage"
	"github.com/ethica-ai/ethica/backend/pkg/bias"
	"github.com/ethica-ai/ethica/backend/pkg/dataset"
	"github.com/ethica-ai/ethica/backend/pkg/fingerprint"
	"github.com/ethica-ai/ethica/backend/pkg/logger"
	"github.com/ethica-ai/ethica/backend/pkg/profile"
)

// AnalysisMessage is the payload published to the analysis queue.
type AnalysisMessage struct {
	SessionID           string   `json:"session_id"`
	Filename            string   `json:"filename"`
	ProtectedAttributes []string `json:"protected_attributes,omitempty"`
	TargetColumn        string   `json:"target_column,omitempty"`
}

// AnalysisResult is the persisted output of one bias analysis run.
type AnalysisResult struct {
	Profile *profile.DatasetProfile `json:"profile"`
	Bias    *bias.Report            `json:"bias_report"`
}

// ProcessAnalysisMessage loads the session dataset, profiles it, runs
// the bias analysis and stores the result JSON in the session.
func ProcessAnalysisMessage(
	ctx context.Context,
	store storage.Store,
	loader *dataset.Loader,
	msgBody string,
) error {
	var msg AnalysisMessage
	if err := json.Unmarshal([]byte(msgBody), &msg); err != nil {
		return fmt.Errorf("unmarshal analysis message: %w", err)
	}

	logger.Info("[Analyze] Processing dataset", "session_id", msg.SessionID, "filename", msg.Filename)

	format, err := dataset.FormatFromFilename(msg.Filename)
	if err != nil {
		return err
	}

	data, err := store.Get(ctx, msg.SessionID, msg.Filename)
	if err != nil {
		return fmt.Errorf("fetch dataset: %w", err)
	}

	table, err := loader.Load(data, format)
	if err != nil {
		return err
	}

	prof, err := profile.Profile(table, profile.Options{
		ProtectedAttributes: msg.ProtectedAttributes,
		TargetColumn:        msg.TargetColumn,
	})
	if err != nil {
		return err
	}

	result := AnalysisResult{
		Profile: prof,
		Bias:    bias.Analyze(prof, bias.DefaultConfig()),
	}
	resultBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal analysis result: %w", err)
	}
	if err := store.Put(ctx, msg.SessionID, storage.BiasResultsFile, bytes.NewReader(resultBytes)); err != nil {
		return fmt.Errorf("store analysis result: %w", err)
	}

	fp := fingerprint.FromBytes(data, prof.RowCount, prof.ColumnCount)
	fpBytes, err := json.Marshal(fp)
	if err != nil {
		return fmt.Errorf("marshal fingerprint: %w", err)
	}
	if err := store.Put(ctx, msg.SessionID, storage.FingerprintFile, bytes.NewReader(fpBytes)); err != nil {
		return fmt.Errorf("store fingerprint: %w", err)
	}

	logger.Info("[Analyze] Stored analysis results", "session_id", msg.SessionID, "bias_score", result.Bias.Score)
	return nil
}
