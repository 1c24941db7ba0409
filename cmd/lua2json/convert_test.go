// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestConvertTree(t *testing.T) {
	dir := t.TempDir()
	luaPath := filepath.Join(dir, "colors.lua")
	const source = `{[1]={y=0,x=0}, thickness=2, color="blue"}`
	if err := os.WriteFile(luaPath, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	failures, err := convertTree(context.Background(), dir, convertOptions{
		workers: 2,
		indent:  "  ",
	})
	if err != nil {
		t.Fatalf("convertTree error = %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("convertTree failures = %v; want none", failures)
	}

	jsonPath := filepath.Join(dir, "colors.json")
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("reading converted output: %v", err)
	}
	if len(data) == 0 {
		t.Error("converted output is empty")
	}
}

func TestConvertTreeReportsBadFile(t *testing.T) {
	dir := t.TempDir()
	luaPath := filepath.Join(dir, "broken.lua")
	if err := os.WriteFile(luaPath, []byte(`{unterminated`), 0o644); err != nil {
		t.Fatal(err)
	}

	failures, err := convertTree(context.Background(), dir, convertOptions{
		workers: 1,
		indent:  "  ",
	})
	if err != nil {
		t.Fatalf("convertTree error = %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("convertTree failures = %v; want exactly one", failures)
	}
}
