// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/gorilla/handlers"
	"github.com/tarmylan/luatable"
	"github.com/tarmylan/luatable/internal/luajson"
	"zombiezen.com/go/log"
	"zombiezen.com/go/uritemplate"
)

// maxRequestSize bounds how much of a request body the server will read.
// A decode/encode call allocates memory proportional to its input, so
// bounding the body bounds the call.
const maxRequestSize = 4 << 20 // 4 MiB

// siblingLinkTemplate is expanded to point each endpoint's response at
// its counterpart, so a client that only knows about /decode can
// discover /encode (and vice versa) instead of hard-coding both paths.
const siblingLinkTemplate = "/{op}"

func newMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /decode", http.HandlerFunc(handleDecode))
	mux.Handle("POST /encode", http.HandlerFunc(handleEncode))
	return handlers.CombinedLoggingHandler(os.Stdout, handlers.RecoveryHandler()(mux))
}

// handleDecode accepts a Lua literal expression as the request body and
// responds with the equivalent JSON document.
func handleDecode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body) > maxRequestSize {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds %d bytes", maxRequestSize))
		return
	}

	v, err := luatable.Decode(body)
	if err != nil {
		log.Debugf(ctx, "decode: %v", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	asAny, err := luajson.ToJSON(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	jsonData, err := jsonv2.Marshal(asAny)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	setSiblingLink(w, "encode")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(jsonData)
}

// handleEncode accepts a JSON document as the request body and responds
// with the equivalent Lua literal expression.
func handleEncode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body) > maxRequestSize {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds %d bytes", maxRequestSize))
		return
	}

	var asAny any
	if err := jsonv2.Unmarshal(body, &asAny); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	v, err := luajson.FromJSON(asAny)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	text, err := luatable.Encode(v)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	setSiblingLink(w, "decode")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

func setSiblingLink(w http.ResponseWriter, op string) {
	href, err := uritemplate.Expand(siblingLinkTemplate, map[string]any{"op": op})
	if err != nil {
		// Never fails for this fixed template; skip the header rather
		// than fail the request it's only decorating.
		return
	}
	w.Header().Set("Link", fmt.Sprintf("<%s>; rel=%q", href, op))
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintln(w, err)
}
