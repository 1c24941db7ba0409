// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigMergeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lua2json.jwcc")
	const contents = `{
		// trailing commas and comments are fine: this is HuJSON
		"workers": 8,
		"indent": "\t",
	}` + "\n"
	if err := os.WriteFile(path, []byte(contents), 0o666); err != nil {
		t.Fatal(err)
	}

	cfg := defaultConfig()
	if err := cfg.mergeFile(path); err != nil {
		t.Fatalf("mergeFile error = %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("cfg.Workers = %d; want 8", cfg.Workers)
	}
	if cfg.Indent != "\t" {
		t.Errorf("cfg.Indent = %q; want %q", cfg.Indent, "\t")
	}
}

func TestConfigMergeFileMissing(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.mergeFile(filepath.Join(t.TempDir(), "nonexistent.jwcc")); err != nil {
		t.Errorf("mergeFile on missing file error = %v; want nil", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := defaultConfig()
	cfg.CacheDB = filepath.Join(t.TempDir(), "cache.db")
	if err := cfg.validate(); err != nil {
		t.Errorf("validate() error = %v; want nil", err)
	}

	cfg.Workers = 0
	if err := cfg.validate(); err == nil {
		t.Error("validate() with zero workers = nil; want error")
	}
}
