// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/tailscale/hujson"
)

// config holds the options for a lua2json run, mergeable from an
// optional HuJSON configuration file. Field names are lowerCamelCase in
// the file.
type config struct {
	Debug   bool   `json:"debug"`
	Workers int    `json:"workers"`
	CacheDB string `json:"cacheDB"`
	Indent  string `json:"indent"`
}

// defaultConfig returns the configuration used when no file overrides
// it: four concurrent workers, two-space JSON indentation, and a cache
// database under the platform cache directory.
func defaultConfig() *config {
	cfg := &config{
		Workers: 4,
		Indent:  "  ",
	}
	if cd := cacheDir(); cd != "" {
		cfg.CacheDB = filepath.Join(cd, "lua2json", "cache.db")
	}
	return cfg
}

// mergeFile reads path as HuJSON (JSON with comments and trailing
// commas) and merges any fields it sets into cfg, leaving fields it
// omits untouched. A missing file is not an error.
func (cfg *config) mergeFile(path string) error {
	if path == "" {
		return nil
	}
	huJSONData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	jsonData, err := hujson.Standardize(huJSONData)
	if err != nil {
		return fmt.Errorf("read %s: %v", path, err)
	}
	if err := jsonv2.Unmarshal(jsonData, cfg, jsonv2.RejectUnknownMembers(false)); err != nil {
		return fmt.Errorf("read %s: %v", path, err)
	}
	return nil
}

func (cfg *config) validate() error {
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if cfg.CacheDB == "" {
		return fmt.Errorf("cache database path not set (pass --cache or set a cache directory)")
	}
	return nil
}
