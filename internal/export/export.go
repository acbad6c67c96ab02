// Package export writes a static rendering of the demo app to a directory
// or an S3 bucket.
package export

import (
	"context"
	"fmt"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/demo"
)

// Store receives exported files.
type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
}

// File is one exported artifact.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Site renders s into the files of a static export: the HTML page and the
// initial ops frame a live client would have received.
func Site(s *demo.State) ([]File, error) {
	ops, err := demo.RenderOps(s)
	if err != nil {
		return nil, fmt.Errorf("render ops: %w", err)
	}
	page := demo.Page("reactor", demo.RenderHTML(s), false)
	return []File{
		{Name: "index.html", ContentType: "text/html; charset=utf-8", Data: []byte(page)},
		{Name: "initial.ops", ContentType: "application/octet-stream", Data: ops},
	}, nil
}

// Write stores every file and returns how many were written.
func Write(ctx context.Context, store Store, files []File) (int, error) {
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := store.Put(ctx, f.Name, f.ContentType, f.Data); err != nil {
			return i, fmt.Errorf("export %s: %w", f.Name, err)
		}
	}
	return len(files), nil
}

// NewStore returns the destination configured in cfg.
func NewStore(cfg config.ExportConfig) (Store, error) {
	if cfg.Bucket != "" {
		client, err := NewS3Client(cfg.Region, cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, cfg.Bucket, cfg.Prefix), nil
	}
	return NewDirStore(cfg.Dir)
}
