// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

// Command lua2json batch-converts a directory tree of Lua table
// constructor literals into JSON documents. Each *.lua file must hold a
// single literal expression; its output is written to a *.json sibling.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"zombiezen.com/go/bass/sigterm"
	"zombiezen.com/go/log"
)

func main() {
	rootCommand := &cobra.Command{
		Use:           "lua2json SRC_DIR",
		Short:         "convert a directory tree of Lua table literals to JSON",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cfg := defaultConfig()
	configPath := rootCommand.PersistentFlags().String("config", "", "`path` to a HuJSON configuration file")
	rootCommand.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "number of files to convert concurrently")
	rootCommand.Flags().StringVar(&cfg.CacheDB, "cache", cfg.CacheDB, "`path` to the conversion cache database")
	rootCommand.Flags().StringVar(&cfg.Indent, "indent", cfg.Indent, "JSON indentation string")
	showDebug := rootCommand.PersistentFlags().Bool("debug", false, "show debugging output")

	rootCommand.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cfg.mergeFile(*configPath); err != nil {
			initLogging(*showDebug)
			return err
		}
		initLogging(*showDebug || cfg.Debug)
		return nil
	}
	rootCommand.RunE = func(cmd *cobra.Command, args []string) error {
		if err := cfg.validate(); err != nil {
			return err
		}
		return run(cmd.Context(), args[0], cfg)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), sigterm.Signals()...)
	err := rootCommand.ExecuteContext(ctx)
	cancel()
	if err != nil {
		initLogging(*showDebug)
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, srcDir string, cfg *config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.CacheDB), 0o755); err != nil {
		return err
	}
	cache := openConversionCache(cfg.CacheDB)
	defer func() {
		if err := cache.Close(); err != nil {
			log.Warnf(ctx, "closing conversion cache: %v", err)
		}
	}()

	showProgress := term.IsTerminal(int(os.Stdout.Fd()))
	opts := convertOptions{
		workers: cfg.Workers,
		indent:  cfg.Indent,
		cache:   cache,
	}
	if showProgress {
		opts.onFile = func() {
			fmt.Fprint(os.Stdout, ".")
		}
	}

	failures, err := convertTree(ctx, srcDir, opts)
	if showProgress {
		fmt.Fprintln(os.Stdout)
	}
	if err != nil {
		return err
	}
	for _, failure := range failures {
		log.Errorf(ctx, "%v", failure)
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d file(s) failed to convert", len(failures))
	}
	return nil
}

var initLogOnce sync.Once

func initLogging(showDebug bool) {
	initLogOnce.Do(func() {
		minLogLevel := log.Info
		if showDebug {
			minLogLevel = log.Debug
		}
		log.SetDefault(&log.LevelFilter{
			Min:    minLogLevel,
			Output: log.New(os.Stderr, "lua2json: ", log.StdFlags, nil),
		})
	})
}
