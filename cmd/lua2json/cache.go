// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitemigration"
	"zombiezen.com/go/sqlite/sqlitex"
)

//go:embed sql/*.sql
//go:embed sql/schema/*.sql
var rawSQLFiles embed.FS

func sqlFiles() fs.FS {
	sub, err := fs.Sub(rawSQLFiles, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

var schemaState struct {
	init   sync.Once
	schema sqlitemigration.Schema
	err    error
}

// loadSchema reads the numbered migration files under sql/schema,
// caching the result across calls.
func loadSchema() sqlitemigration.Schema {
	schemaState.init.Do(func() {
		for i := 1; ; i++ {
			migration, err := fs.ReadFile(sqlFiles(), fmt.Sprintf("schema/%02d.sql", i))
			if errors.Is(err, fs.ErrNotExist) {
				break
			}
			if err != nil {
				schemaState.err = err
				return
			}
			schemaState.schema.Migrations = append(schemaState.schema.Migrations, string(migration))
		}
	})
	if schemaState.err != nil {
		panic(schemaState.err)
	}
	return schemaState.schema
}

func prepareConn(conn *sqlite.Conn) error {
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA journal_mode = wal;", nil); err != nil {
		return err
	}
	return sqlitex.ExecuteTransient(conn, "PRAGMA busy_timeout = 5000;", nil)
}

// conversionCache records, for each source file successfully converted,
// its size, modification time, and content hash, so that a repeat run
// can skip files that have not changed.
type conversionCache struct {
	db *sqlitemigration.Pool
}

func openConversionCache(dbPath string) *conversionCache {
	return &conversionCache{
		db: sqlitemigration.NewPool(dbPath, loadSchema(), sqlitemigration.Options{
			Flags:       sqlite.OpenCreate | sqlite.OpenReadWrite,
			PrepareConn: prepareConn,
		}),
	}
}

func (c *conversionCache) Close() error {
	return c.db.Close()
}

// fileStamp is the fingerprint of a source file's content used to
// decide whether a previous conversion is still valid.
type fileStamp struct {
	size        int64
	modTime     int64
	contentHash string
}

func hashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// UpToDate reports whether path's cached stamp matches stamp, meaning
// the file's conversion output is still current.
func (c *conversionCache) UpToDate(ctx context.Context, path string, stamp fileStamp) (bool, error) {
	conn, err := c.db.Get(ctx)
	if err != nil {
		return false, err
	}
	defer c.db.Put(conn)

	var found bool
	var cached fileStamp
	err = sqlitex.ExecuteFS(conn, sqlFiles(), "select_conversion.sql", &sqlitex.ExecOptions{
		Named: map[string]any{":path": path},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			cached.size = stmt.GetInt64("size")
			cached.modTime = stmt.GetInt64("mod_time")
			cached.contentHash = stmt.GetText("content_hash")
			return nil
		},
	})
	if err != nil {
		return false, fmt.Errorf("query conversion cache for %s: %v", path, err)
	}
	if !found {
		return false, nil
	}
	return cached == stamp, nil
}

// Record stores stamp as path's latest known conversion fingerprint.
func (c *conversionCache) Record(ctx context.Context, path string, stamp fileStamp) error {
	conn, err := c.db.Get(ctx)
	if err != nil {
		return err
	}
	defer c.db.Put(conn)

	err = sqlitex.ExecuteFS(conn, sqlFiles(), "upsert_conversion.sql", &sqlitex.ExecOptions{
		Named: map[string]any{
			":path":         path,
			":size":         stamp.size,
			":mod_time":     stamp.modTime,
			":content_hash": stamp.contentHash,
			":converted_at": time.Now().Unix(),
		},
	})
	if err != nil {
		return fmt.Errorf("record conversion cache for %s: %v", path, err)
	}
	return nil
}
