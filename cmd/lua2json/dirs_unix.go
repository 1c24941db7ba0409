// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

//go:build unix

package main

import "go4.org/xdgdir"

func cacheDir() string {
	return xdgdir.Cache.Path()
}
