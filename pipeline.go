package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// BuildGraph runs the whole pipeline over paths: read declarations through
// the configured frontend, group them, assemble the graph. Nothing is
// returned unless every input was read.
func BuildGraph(ctx context.Context, cfg *Config, paths []string, logger *slog.Logger) (*Graph, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var decls []Declaration
	switch cfg.Frontend {
	case FrontendGo:
		for _, dir := range paths {
			items, err := LoadGoDeclarations(ctx, dir, logger)
			if err != nil {
				return nil, err
			}
			decls = append(decls, items...)
		}
	default:
		files, err := DiscoverInputs(paths, InputOptions{
			Include: cfg.Include,
			Exclude: cfg.Exclude,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		decls, err = LoadDeclarations(files, logger)
		if err != nil {
			return nil, err
		}
	}
	logger.Info("read declarations", "count", len(decls))

	groups := ExtractGroups(decls)
	return Assemble(groups, AssembleOptions{
		IDs:                 cfg.IDs,
		ShowImplementations: cfg.ShowImplementations,
		Logger:              logger,
	}), nil
}

// Render writes g to w in the requested format.
func Render(ctx context.Context, w io.Writer, g *Graph, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(g)
	case FormatSVG:
		var buf bytes.Buffer
		if err := WriteDOT(&buf, g); err != nil {
			return err
		}
		svg, err := RenderSVG(ctx, buf.Bytes())
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	case FormatDOT:
		return WriteDOT(w, g)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
