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

// Package highlight resolves syntaxes and themes for source blocks
// and renders highlighted code as HTML.
//
// Besides the syntaxes and themes built into [chroma],
// a site may provide its own definitions in chroma's XML format:
// syntaxes under highlighting/syntaxes
// and themes under highlighting/themes
// relative to the site root.
//
// [chroma]: https://github.com/alecthomas/chroma
package highlight

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultTheme is the theme used when [Config.Theme] is empty.
const DefaultTheme = "monokai"

// Config is the set of parameters to [New].
type Config struct {
	// Theme is the name of the theme used for highlighting.
	// If empty, DefaultTheme is used.
	Theme string `yaml:"theme"`
	// DarkTheme is an optional theme used when the reader
	// prefers a dark color scheme.
	// Setting it switches the output to CSS classes;
	// the matching stylesheet is produced by [*Highlighter.WriteCSS].
	DarkTheme string `yaml:"dark_theme"`
}

// A Highlighter renders source code as highlighted HTML.
// It is safe to use from multiple goroutines.
type Highlighter struct {
	lexers map[string]chroma.Lexer
	styles map[string]*chroma.Style

	style     *chroma.Style
	dark      *chroma.Style
	formatter *chromahtml.Formatter
}

// New returns a highlighter that knows the built-in syntaxes and themes
// plus any definitions found under root.
// It returns an [*UnknownSyntaxThemeError]
// if a configured theme cannot be found.
func New(root string, cfg Config) (*Highlighter, error) {
	h := &Highlighter{
		lexers: make(map[string]chroma.Lexer),
		styles: make(map[string]*chroma.Style),
	}
	if root != "" {
		dir := filepath.Join(root, "highlighting")
		if err := h.loadSyntaxes(os.DirFS(filepath.Join(dir, "syntaxes"))); err != nil {
			return nil, err
		}
		if err := h.loadThemes(os.DirFS(filepath.Join(dir, "themes"))); err != nil {
			return nil, err
		}
	}

	name := cfg.Theme
	if name == "" {
		name = DefaultTheme
	}
	var err error
	h.style, err = h.Style(name)
	if err != nil {
		return nil, err
	}
	opts := []chromahtml.Option{chromahtml.PreventSurroundingPre(true)}
	if cfg.DarkTheme != "" {
		h.dark, err = h.Style(cfg.DarkTheme)
		if err != nil {
			return nil, err
		}
		opts = append(opts, chromahtml.WithClasses(true))
	}
	h.formatter = chromahtml.New(opts...)
	return h, nil
}

func (h *Highlighter) loadSyntaxes(fsys fs.FS) error {
	files, _ := fs.Glob(fsys, "*.xml")
	for _, file := range files {
		lexer, err := chroma.NewXMLLexer(fsys, file)
		if err != nil {
			return fmt.Errorf("load syntax %s: %w", file, err)
		}
		cfg := lexer.Config()
		h.lexers[strings.ToLower(cfg.Name)] = lexer
		for _, alias := range cfg.Aliases {
			h.lexers[strings.ToLower(alias)] = lexer
		}
	}
	return nil
}

func (h *Highlighter) loadThemes(fsys fs.FS) error {
	files, _ := fs.Glob(fsys, "*.xml")
	for _, file := range files {
		style, err := readStyle(fsys, file)
		if err != nil {
			return fmt.Errorf("load theme %s: %w", file, err)
		}
		h.styles[strings.ToLower(style.Name)] = style
		// Themes can also be referred to by file name.
		base := strings.TrimSuffix(path.Base(file), ".xml")
		h.styles[strings.ToLower(base)] = style
	}
	return nil
}

func readStyle(fsys fs.FS, name string) (*chroma.Style, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return chroma.NewXMLStyle(f)
}

// Lexer returns the syntax with the given name or alias.
// Site-provided syntaxes take precedence over built-in ones.
func (h *Highlighter) Lexer(name string) (chroma.Lexer, error) {
	if lexer := h.lexers[strings.ToLower(name)]; lexer != nil {
		return lexer, nil
	}
	if lexer := lexers.Get(name); lexer != nil {
		return lexer, nil
	}
	return nil, &UnknownSyntaxError{Name: name}
}

// Style returns the theme with the given name.
// Site-provided themes take precedence over built-in ones.
func (h *Highlighter) Style(name string) (*chroma.Style, error) {
	key := strings.ToLower(name)
	if style := h.styles[key]; style != nil {
		return style, nil
	}
	if style := styles.Registry[key]; style != nil {
		return style, nil
	}
	return nil, &UnknownSyntaxThemeError{Name: name}
}

// Highlight returns code rendered as HTML using the syntax lang.
// The result is not wrapped in a <pre> element.
func (h *Highlighter) Highlight(lang, code string) (string, error) {
	lexer, err := h.Lexer(lang)
	if err != nil {
		return "", err
	}
	iter, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("highlight %s: %w", lang, err)
	}
	sb := new(strings.Builder)
	if err := h.formatter.Format(sb, h.style, iter); err != nil {
		return "", fmt.Errorf("highlight %s: %w", lang, err)
	}
	return sb.String(), nil
}

// UsesClasses reports whether highlighted output refers to CSS classes
// instead of carrying inline styles.
func (h *Highlighter) UsesClasses() bool {
	return h.dark != nil
}

// WriteCSS writes the stylesheet for class-based output:
// rules for the theme followed by the dark theme's rules
// inside a prefers-color-scheme media query.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	css := chromahtml.New(chromahtml.WithClasses(true))
	if err := css.WriteCSS(w, h.style); err != nil {
		return fmt.Errorf("write highlighting css: %w", err)
	}
	if h.dark == nil {
		return nil
	}
	if _, err := io.WriteString(w, "@media (prefers-color-scheme: dark) {\n"); err != nil {
		return fmt.Errorf("write highlighting css: %w", err)
	}
	if err := css.WriteCSS(w, h.dark); err != nil {
		return fmt.Errorf("write highlighting css: %w", err)
	}
	if _, err := io.WriteString(w, "}\n"); err != nil {
		return fmt.Errorf("write highlighting css: %w", err)
	}
	return nil
}

// UnknownSyntaxError is returned when no syntax matches a language name.
type UnknownSyntaxError struct {
	Name string
}

func (e *UnknownSyntaxError) Error() string {
	return fmt.Sprintf("cannot find syntax highlighting for language %q", e.Name)
}

// UnknownSyntaxThemeError is returned when no theme matches a name.
type UnknownSyntaxThemeError struct {
	Name string
}

func (e *UnknownSyntaxThemeError) Error() string {
	return fmt.Sprintf("cannot find syntax theme %q", e.Name)
}
