package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/ethica-ai/ethica/backend/internal/util"
)

// ErrNotFound is returned when a session or file does not exist.
var ErrNotFound = errors.New("storage: not found")

// FileInfo describes one stored session file.
type FileInfo struct {
	Name     string    `json:"filename"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Store keeps the uploaded dataset and the generated result files of an
// analysis session. Sessions are flat: one directory-like namespace per
// session id.
type Store interface {
	Put(ctx context.Context, session, name string, r io.Reader) error
	Get(ctx context.Context, session, name string) ([]byte, error)
	List(ctx context.Context, session string) ([]FileInfo, error)
	// Delete removes a whole session with all its files.
	Delete(ctx context.Context, session string) error
}

// NewFromEnv selects the storage backend from STORAGE_BACKEND: "s3" for
// the S3 backend, anything else for local disk under DATA_DIR.
func NewFromEnv(ctx context.Context) (Store, error) {
	if util.GetEnvString("STORAGE_BACKEND", "local") == "s3" {
		return NewS3Store(ctx)
	}
	return NewLocalStore(util.GetEnvString("DATA_DIR", "data"))
}

// Result file names written next to the uploaded dataset of a session.
const (
	BiasResultsFile     = "bias_analysis_results.json"
	FingerprintFile     = "fingerprint.json"
	CompositeReportFile = "composite_report.json"
)

// IsResultFile reports whether a session file is a generated result
// rather than the uploaded dataset.
func IsResultFile(name string) bool {
	switch name {
	case BiasResultsFile, FingerprintFile, CompositeReportFile:
		return true
	}
	return false
}
