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

package site

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/m4tsa/nuko/highlight"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the configuration file in a site's root.
const ConfigFileName = "nuko.yaml"

// Config is the configuration of a site.
type Config struct {
	// BaseURL is prepended to site-relative links.
	BaseURL      string           `yaml:"base_url"`
	Highlighting highlight.Config `yaml:"highlighting"`
	// Workers limits the number of pages built at once.
	// Zero means one per CPU.
	Workers int `yaml:"workers"`
}

// LoadConfig reads a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses YAML configuration.
// Unknown fields are an error.
func ParseConfig(data []byte) (*Config, error) {
	cfg := new(Config)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("parse config: workers = %d; must not be negative", cfg.Workers)
	}
	return cfg, nil
}
