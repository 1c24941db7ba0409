// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

// Command luatable-serve exposes the luatable codec as a small HTTP
// service: POST /decode converts Lua literal source to JSON, POST
// /encode converts JSON back to Lua literal source.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"zombiezen.com/go/bass/sigterm"
	"zombiezen.com/go/log"
	"zombiezen.com/go/xcontext"
)

func main() {
	rootCommand := &cobra.Command{
		Use:           "luatable-serve",
		Short:         "serve the luatable codec over HTTP",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	addr := rootCommand.Flags().String("addr", "localhost:8080", "`address` to listen on")
	showDebug := rootCommand.PersistentFlags().Bool("debug", false, "show debugging output")
	rootCommand.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initLogging(*showDebug)
		return nil
	}
	rootCommand.RunE = func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), *addr)
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

// serve listens on addr and runs the codec HTTP service until ctx is
// canceled, then shuts down gracefully.
func serve(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	// Closing the listener when ctx is done interrupts a blocked Accept,
	// the same way xcontext.CloseWhenDone unblocks a stuck ReadResponse
	// in the jsonrpc client.
	closer := xcontext.CloseWhenDone(ctx, l)
	defer closer.Close()

	srv := &http.Server{Handler: newMux()}
	log.Infof(ctx, "Listening on %s", addr)

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		err := srv.Serve(l)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	grp.Go(func() error {
		<-grpCtx.Done()
		return srv.Shutdown(context.Background())
	})
	return grp.Wait()
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
			Output: log.New(os.Stderr, "luatable-serve: ", log.StdFlags, nil),
		})
	})
}
