// Copyright 2025 The NLPServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the nlpserve HTTP gateway and its companion commands.

NLPServe exposes a Chinese NLP pipeline over HTTP: sentence splitting, custom
dictionary extension, word segmentation, part-of-speech tagging, named entity
recognition, semantic role labeling, dependency parsing and semantic dependency
parsing. A small fixed identity service is served next to it for the admin UI
that consumes the gateway.

# Usage

Start the gateway with the config found in the usual places:

	nlpserve serve

Use a specific config, a custom dictionary and debug logging:

	nlpserve serve --config ./config.toml --dict words.txt -d

Try the pipeline interactively:

	nlpserve segment --tasks pos,ner,dep

# Configuration

Configuration is a TOML file (YAML is accepted too) looked up in this order:
the --config flag, config.toml in the working directory, then
~/.config/nlpserve/config.toml. Startup fails when no file is found or when any
route below is missing.

	default_host = "0.0.0.0"
	default_port = 8000
	default_max_window = 4
	envelope_style = "envelope"

	[route_path]
	sent_split = "/sent_split"
	add_words = "/add_words"
	seg = "/seg"
	pos = "/pos"
	ner = "/ner"
	srl = "/srl"
	dep = "/dep"
	sdp = "/sdp"
	sdpg = "/sdpg"
	all = "/all"

	[mock_path]
	login = "/basic-api/login"
	logout = "/basic-api/logout"
	get_user_info = "/basic-api/getUserInfo"
	get_prem_code = "/basic-api/getPermCode"
	get_menu_list = "/basic-api/getMenuList"

	[engine]
	name = "lexicon"
	dict_path = "words.txt"

NLPSERVE_HOST, NLPSERVE_PORT and NLPSERVE_LOG_LEVEL override the file, and are
also read from a .env file in the working directory.

	nlpserve config init

writes a starter file with these defaults to the default path.

# Engines

The lexicon engine runs in process over a patricia trie dictionary. The remote
engine forwards every call to another nlpserve (or compatible) instance and
speaks MessagePack with it:

	[engine]
	name = "remote"
	upstream = "http://10.0.0.5:8000"
	timeout = "10s"

# Dictionaries

Custom dictionaries are plain text, one "word [tag] [freq]" per line, or the
ranked binary layout. The dict command converts between them:

	nlpserve dict convert words.txt words.bin
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/nlpserve/internal/logger"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0-beta"
	AppName = "nlpserve"
	gh      = "https://github.com/bastiangx/nlpserve"
)

var (
	configPath string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   AppName,
	Short: "HTTP gateway for a Chinese NLP pipeline",
	Long: `nlpserve serves sentence splitting, segmentation, tagging, entity recognition
and parsing over HTTP, plus a fixed identity service for the admin UI.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup("", false, debugMode)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Toggle debug mode")
}

// sigHandler exits on the first interrupt. serve installs its own handling instead.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("Command failed", "err", err)
		os.Exit(1)
	}
}
