// Copyright 2025 The WordGuard Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordguard spell checker and censor CLI.

WordGuard keeps two plain word lists on disk: a spelling dictionary and a
list of forbidden terms. Both are newline separated, lower-cased and
rewritten atomically in sorted order every time they change.

# Usage

Maintain the dictionary:

	wordguard add kubernetes grpc
	wordguard remove teh
	wordguard suggest helo wrld

Correct a document interactively. For every unknown word that has a
suggestion the CLI asks:

	Misspelled: 'qick' (line 1, col 5)
	Suggestions: quick
	Use 'quick'? (y/n/c):

"y" takes the suggestion keeping the first letter's case, "c" asks for a
replacement, anything else keeps the word. When stdin runs out the rest of
the document is left as is.

	wordguard check draft.txt final.txt
	wordguard check --scan draft.txt
	wordguard check --scan --add-unknown glossary.txt

Censor forbidden words:

	wordguard ban heck
	wordguard censor post.txt post.clean.txt

# Configuration

A TOML file at [UserConfigDir]/wordguard/config.toml is created with
defaults on first run:

	[dict]
	spelling_path = "dictionary.txt"
	censor_path = "expletives.txt"
	lock = true

	[suggest]
	max_distance = 1
	limit = 8

	[censor]
	marker = "[CENSORED]"

WORDGUARD_DICT, WORDGUARD_CENSOR and WORDGUARD_MARKER override the file,
and may also be set in a .env file in the working directory. The --dict
and --censor-dict flags win over both.

# Server Mode

	wordguard serve

starts a MessagePack IPC server on stdin/stdout for editors and other
tools. See package server for the protocol.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

const (
	Version = "0.1.0"
	AppName = "wordguard"
	gh      = "https://github.com/bastiangx/wordguard"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
