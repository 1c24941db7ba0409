// Copyright 2024 The luatable Authors
// SPDX-License-Identifier: MIT

// Package lualex provides the lexical primitives used to recognize Lua 5.2
// literal expressions: a save/restore byte cursor, character-class
// predicates, long-bracket (`[=*[ ... ]=*]`) open/peek/close handling, a
// newline-normalizing long-string accumulator, numeral digit accumulation,
// and backslash-escape decoding.
//
// Unlike a general-purpose Lua lexer that tokenizes an entire source file
// (keywords, operators, labels, and so on), this package only recognizes
// the lexical forms that appear inside a literal table-constructor
// expression. It exposes a [Cursor] with arbitrary save/restore rather than
// a single-token lookahead scanner, because classifying a table field
// ("[expr]=expr" vs "name=expr" vs a bare expression) and detecting a long
// comment both require backtracking past more than one byte.
package lualex
