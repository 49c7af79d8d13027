// Package main implements the chartmark overlay binary. It reads an
// overlay request (bucketed frame, axis dimension, event sets, optional
// chart spec), runs bounds extension and event binning, rewrites the
// chart spec, and writes the augmented result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chartmark/chartmark/internal/annostore"
	"github.com/chartmark/chartmark/internal/config"
	"github.com/chartmark/chartmark/internal/export"
	"github.com/chartmark/chartmark/internal/overlay"
	"github.com/chartmark/chartmark/internal/storage"
	"github.com/chartmark/chartmark/internal/vega"
	"github.com/chartmark/chartmark/pkg/types"
)

// request is the overlay input document.
type request struct {
	Chart      string                 `json:"chart"`
	Axis       types.AxisDimension    `json:"axis"`
	Frame      types.Frame            `json:"frame"`
	Events     []types.EventSet       `json:"events"`
	StoredSets []string               `json:"stored_sets"`
	Spec       map[string]interface{} `json:"spec"`
}

// response is the overlay output document.
type response struct {
	Frame      types.Frame            `json:"frame"`
	Filter     string                 `json:"filter"`
	Spec       map[string]interface{} `json:"spec,omitempty"`
	Placed     int                    `json:"placed"`
	Dropped    int                    `json:"dropped"`
	ExportPath string                 `json:"export_path,omitempty"`
}

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (YAML or JSON)")
		inputPath  = flag.String("input", "-", "overlay request file, '-' for stdin")
		outputPath = flag.String("output", "-", "result file, '-' for stdout")
		storePath  = flag.String("store", "", "annotation catalog path (overrides config)")
		doExport   = flag.Bool("export", false, "export a snapshot through the configured backend")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	req, err := readRequest(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read request: %v", err)
	}
	if req.Axis.Key == "" {
		log.Fatalf("Request is missing axis.key")
	}

	ctx := context.Background()

	sets := req.Events
	if len(req.StoredSets) > 0 {
		path := *storePath
		if path == "" {
			if err := cfg.EnsureDirectories(); err != nil {
				log.Fatalf("Failed to create data directories: %v", err)
			}
			path = cfg.StorePath()
		}
		store, err := annostore.NewStore(path)
		if err != nil {
			log.Fatalf("Failed to open annotation catalog: %v", err)
		}
		defer store.Close()

		for _, name := range req.StoredSets {
			set, err := store.GetByName(ctx, name)
			if err != nil {
				log.Fatalf("Failed to load annotation set %q: %v", name, err)
			}
			sets = append(sets, set)
		}
	}

	frame, bindRes, err := overlay.Apply(req.Frame, req.Axis, sets)
	if err != nil {
		log.Fatalf("Overlay failed: %v", err)
	}
	if bindRes.Dropped > 0 {
		log.Printf("Warning: %d events had no buckets to bind into and were discarded", bindRes.Dropped)
	}

	resp := response{
		Frame:   frame,
		Filter:  vega.MarkerFilterExpr(vega.MarkerColumnIDs(bindRes.Columns)),
		Placed:  bindRes.Placed,
		Dropped: bindRes.Dropped,
	}

	if req.Spec != nil {
		if err := vega.AugmentSpec(req.Spec, req.Axis, bindRes.Columns, cfg.Marker); err != nil {
			log.Fatalf("Failed to augment chart spec: %v", err)
		}
		resp.Spec = req.Spec
	}

	if *doExport {
		backend, err := newExportBackend(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize export backend: %v", err)
		}
		exporter := export.NewExporter(backend)
		path, err := exporter.Export(ctx, export.Snapshot{
			Chart:   req.Chart,
			Axis:    req.Axis,
			Frame:   frame,
			Filter:  resp.Filter,
			Spec:    resp.Spec,
			Placed:  resp.Placed,
			Dropped: resp.Dropped,
		})
		if err != nil {
			log.Fatalf("Failed to export snapshot: %v", err)
		}
		resp.ExportPath = path
		log.Printf("Snapshot exported to %s", path)
	}

	if err := writeResponse(*outputPath, &resp); err != nil {
		log.Fatalf("Failed to write result: %v", err)
	}
}

func readRequest(path string) (*request, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("request is not valid JSON: %w", err)
	}
	return &req, nil
}

func writeResponse(path string, resp *response) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func newExportBackend(ctx context.Context, cfg *config.Config) (storage.ObjectStorage, error) {
	switch cfg.Export.Type {
	case "s3":
		return storage.NewS3Storage(ctx, cfg.Export.S3.Bucket, storage.S3Config{
			Region:       cfg.Export.S3.Region,
			Endpoint:     cfg.Export.S3.Endpoint,
			UsePathStyle: cfg.Export.S3.UsePathStyle,
		})
	default:
		return storage.NewLocalStorage(cfg.Export.Path)
	}
}
