package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/ethica-ai/ethica/backend/internal/storage"
	"github.com/ethica-ai/ethica/backend/pkg/dataset"
)

// findDatasetFile returns the uploaded dataset of a session, skipping
// generated result files.
func findDatasetFile(ctx context.Context, store storage.Store, session string) (*storage.FileInfo, error) {
	files, err := store.List(ctx, session)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if !storage.IsResultFile(f.Name) {
			return &f, nil
		}
	}
	return nil, storage.ErrNotFound
}

// engineErrorStatus maps dataset and storage errors to an HTTP status.
func engineErrorStatus(err error) int {
	var loadErr *dataset.LoadError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dataset.ErrEmptyDataset),
		errors.Is(err, dataset.ErrUnsupportedFormat),
		errors.As(err, &loadErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
