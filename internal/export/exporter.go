// Package export publishes overlay snapshots through object storage so
// augmented charts can be shared or replayed outside the dashboard.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chartmark/chartmark/internal/errors"
	"github.com/chartmark/chartmark/internal/storage"
	"github.com/chartmark/chartmark/pkg/types"
)

// Snapshot is the exported document: everything needed to re-render an
// augmented chart without re-running the overlay.
type Snapshot struct {
	// Chart names the chart the snapshot belongs to (used in the object path)
	Chart string `json:"chart"`

	// CreatedAt is the export time
	CreatedAt time.Time `json:"created_at"`

	// Axis is the bucketed time dimension the overlay ran against
	Axis types.AxisDimension `json:"axis"`

	// Frame is the augmented table (extended rows + marker columns)
	Frame types.Frame `json:"frame"`

	// Filter is the generated marker filter expression
	Filter string `json:"filter"`

	// Spec is the augmented chart specification, when one was rewritten
	Spec map[string]interface{} `json:"spec,omitempty"`

	// Placed and Dropped report the binner's event accounting
	Placed  int `json:"placed"`
	Dropped int `json:"dropped"`
}

// Exporter writes snapshots through an ObjectStorage backend.
type Exporter struct {
	store storage.ObjectStorage

	// now is swappable for deterministic object paths in tests.
	now func() time.Time
}

// NewExporter creates an exporter over the given storage backend.
func NewExporter(store storage.ObjectStorage) *Exporter {
	return &Exporter{
		store: store,
		now:   time.Now,
	}
}

// Export serializes the snapshot and writes it under
// snapshots/<chart>/<unix-millis>.json, returning the object path.
func (e *Exporter) Export(ctx context.Context, snap Snapshot) (string, error) {
	if snap.Chart == "" {
		snap.Chart = "chart"
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = e.now()
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", errors.NewInternalError("failed to marshal snapshot", err)
	}

	objectPath := fmt.Sprintf("snapshots/%s/%d.json", snap.Chart, snap.CreatedAt.UnixMilli())
	if err := e.store.Put(ctx, objectPath, data); err != nil {
		return "", errors.NewStorageError(errors.CodeUploadFailed,
			fmt.Sprintf("failed to export snapshot to %s", objectPath), err)
	}

	return objectPath, nil
}

// Load reads a previously exported snapshot back from storage.
func (e *Exporter) Load(ctx context.Context, objectPath string) (*Snapshot, error) {
	data, err := e.store.Get(ctx, objectPath)
	if err != nil {
		if err == storage.ErrObjectNotFound {
			return nil, errors.NewStorageError(errors.CodeObjectNotFound,
				fmt.Sprintf("snapshot %s not found", objectPath), err)
		}
		return nil, errors.NewStorageError(errors.CodeDownloadFailed,
			fmt.Sprintf("failed to load snapshot %s", objectPath), err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.NewStorageError(errors.CodeDownloadFailed,
			fmt.Sprintf("snapshot %s is not valid JSON", objectPath), err)
	}
	return &snap, nil
}

// List returns the object paths of all snapshots for a chart.
func (e *Exporter) List(ctx context.Context, chart string) ([]string, error) {
	return e.store.ListObjects(ctx, fmt.Sprintf("snapshots/%s/", chart))
}
