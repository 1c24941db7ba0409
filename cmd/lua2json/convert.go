// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
	"github.com/tarmylan/luatable"
	"github.com/tarmylan/luatable/internal/luajson"
	"golang.org/x/sync/errgroup"
	"zombiezen.com/go/log"
)

// convertOptions configures a single batch-conversion run.
type convertOptions struct {
	workers int
	indent  string
	cache   *conversionCache
	onFile  func() // called once per file attempted, for progress reporting
}

// convertTree walks root, finds every *.lua file, and converts each to
// a *.json sibling containing the equivalent JSON document. Files whose
// conversion is still current according to opts.cache are skipped. A
// file that fails to convert (to read, parse, or write) is reported
// through the returned error slice rather than aborting the whole run;
// the batch itself only fails if walking the directory tree fails.
func convertTree(ctx context.Context, root string, opts convertOptions) ([]error, error) {
	var luaFiles []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".lua") {
			luaFiles = append(luaFiles, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %v", root, walkErr)
	}

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(opts.workers)
	convErrs := make([]error, len(luaFiles))
	for i, path := range luaFiles {
		grp.Go(func() error {
			jobID := uuid.New()
			err := convertFile(grpCtx, path, opts, jobID)
			if opts.onFile != nil {
				opts.onFile()
			}
			if err != nil {
				convErrs[i] = fmt.Errorf("%s: %v", path, err)
				log.Warnf(grpCtx, "[%s] %s: %v", jobID, path, err)
			} else {
				log.Debugf(grpCtx, "[%s] converted %s", jobID, path)
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	var failures []error
	for _, err := range convErrs {
		if err != nil {
			failures = append(failures, err)
		}
	}
	return failures, nil
}

// convertFile converts one *.lua file to its *.json sibling, consulting
// and then updating opts.cache.
func convertFile(ctx context.Context, path string, opts convertOptions, jobID uuid.UUID) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	stamp := fileStamp{
		size:        info.Size(),
		modTime:     info.ModTime().UnixNano(),
		contentHash: hashContent(source),
	}

	if opts.cache != nil {
		upToDate, err := opts.cache.UpToDate(ctx, path, stamp)
		if err != nil {
			log.Debugf(ctx, "[%s] cache lookup for %s failed, reconverting: %v", jobID, path, err)
		} else if upToDate {
			return nil
		}
	}

	v, err := luatable.Decode(source)
	if err != nil {
		return fmt.Errorf("decode: %v", err)
	}
	asAny, err := luajson.ToJSON(v)
	if err != nil {
		return fmt.Errorf("convert: %v", err)
	}
	jsonData, err := jsonv2.Marshal(asAny, jsontext.Multiline(true), jsontext.WithIndent(opts.indent))
	if err != nil {
		return fmt.Errorf("marshal: %v", err)
	}
	jsonData = append(jsonData, '\n')

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	if err := os.WriteFile(outPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("write %s: %v", outPath, err)
	}

	if opts.cache != nil {
		if err := opts.cache.Record(ctx, path, stamp); err != nil {
			log.Debugf(ctx, "[%s] recording cache entry for %s failed: %v", jobID, path, err)
		}
	}
	return nil
}
