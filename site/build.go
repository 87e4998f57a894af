// Copyright 2026 The Nuko Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package site turns a site's content files into rendered pages.
package site

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/m4tsa/nuko/highlight"
	"github.com/m4tsa/nuko/org"
	"github.com/m4tsa/nuko/page"
	"github.com/m4tsa/nuko/toc"
	"golang.org/x/sync/errgroup"
)

// PostType is the TYPE keyword value of pages listed as posts.
const PostType = "post"

// Source is the text of one content file.
type Source struct {
	// Path is the file's path, used to derive the page's URL path.
	Path string
	Text string
}

// Output is a rendered page.
type Output struct {
	Page *page.Page
	HTML string
	TOC  *toc.TOC
}

// A Builder renders content files.
type Builder struct {
	Config *Config
	// ContentDir is the directory that page URL paths are relative to.
	ContentDir  string
	Highlighter *highlight.Highlighter
	// Logger receives progress messages.
	// If nil, [slog.Default] is used.
	Logger *slog.Logger
}

// NewBuilder returns a builder for the site rooted at root
// whose content lives in root/content.
func NewBuilder(root string, cfg *Config, logger *slog.Logger) (*Builder, error) {
	hl, err := highlight.New(root, cfg.Highlighting)
	if err != nil {
		return nil, fmt.Errorf("new builder: %w", err)
	}
	return &Builder{
		Config:      cfg,
		ContentDir:  filepath.Join(root, "content"),
		Highlighter: hl,
		Logger:      logger,
	}, nil
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// ReadSources reads every .org file under the content directory.
func (b *Builder) ReadSources() ([]Source, error) {
	var sources []Source
	err := filepath.WalkDir(b.ContentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".org" {
			return nil
		}
		text, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		sources = append(sources, Source{Path: path, Text: string(text)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	return sources, nil
}

// Build renders the given sources in parallel.
// The outputs are in the same order as the sources.
// Build stops at the first page that fails and returns its error.
func (b *Builder) Build(ctx context.Context, sources []Source) ([]*Output, error) {
	start := time.Now()
	workers := b.Config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outputs := make([]*Output, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := b.buildPage(src)
			if err != nil {
				b.logger().Error("Page build failed",
					slog.String("path", src.Path),
					slog.String("error", err.Error()))
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	b.logger().Info("Built site",
		slog.Int("pages", len(outputs)),
		slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000))
	return outputs, nil
}

// buildPage parses and renders one source.
// Each call uses its own renderer state.
func (b *Builder) buildPage(src Source) (*Output, error) {
	pagePath, err := page.Path(b.ContentDir, src.Path)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", src.Path, err)
	}
	doc, err := org.Parse(src.Text)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", src.Path, err)
	}
	p, err := page.FromDocument(pagePath, doc)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", src.Path, err)
	}
	r := &org.HTMLRenderer{
		BaseURL:     b.Config.BaseURL,
		Highlighter: b.Highlighter,
		Logger:      b.Logger,
	}
	res, err := r.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", src.Path, err)
	}
	b.logger().Debug("Built page",
		slog.String("path", src.Path),
		slog.String("page", pagePath))
	return &Output{
		Page: p,
		HTML: res.HTML,
		TOC:  res.TOC,
	}, nil
}

// Posts lists the outputs whose pages have TYPE post, newest first.
func Posts(outputs []*Output) (*page.Posts, error) {
	posts := new(page.Posts)
	for _, out := range outputs {
		if out.Page.Type != PostType {
			continue
		}
		if err := posts.Add(out.Page); err != nil {
			return nil, err
		}
	}
	posts.Sort()
	return posts, nil
}
