// Copyright 2025 The TapServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the touch suggestion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

TapServe provides fast fuzzy word suggestions for software keyboards using a
packed-trie dictionary and a key proximity model. It can operate as a
MessagePack IPC server for integration with input methods, or as a CLI
application for testing and debugging.

The server memory-maps a packed binary dictionary and walks it lazily per
request, so even large dictionaries add no load time and little resident
memory. Suggestions are ranked by frequency weighted scoring with proximity
and edit aware corrections.

# Usage

Start the server with a dictionary:

	tapserve -dict data/main_en.dict

Enable debug mode:

	tapserve -dict data/main_en.dict -d

Run in CLI mode for interactive testing:

	tapserve -dict data/main_en.dict -c -limit 10

Dictionaries are built from word frequency lists with the tapdict tool.

# Configuration

Runtime configuration is managed through a TOML file that supports engine
parameters, proximity grid settings, and server limits:

	[engine]
	max_errors = 2
	two_word_errors = 1
	enable_split = true
	enable_completion = true

	[proximity]
	grid_width = 32
	grid_height = 16

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Suggestion
requests are processed synchronously with timing information included in
responses.

Send a suggestion request with touch coordinates:

	{"id": "req1", "k": [99, 97, 116], "x": [135, 45, 285], "y": [40, 120, 40], "l": 10}

Receive ranked suggestions:

	{"id": "req1", "s": [{"w": "cat", "f": 160}, {"w": "rat", "f": 40}], "c": 2, "t": 1}

User dictionary requests adjust the runtime word set:

	{"id": "user1", "op": "user_add", "w": "tapserve", "f": 128}

# Server Mode

The default mode starts a MessagePack IPC server that processes suggestion
requests from stdin and writes responses to stdout. This design enables
integration with input methods and other applications through process
communication.

	srv := server.NewServer(engine, config, configPath)
	err := srv.Start()

# CLI Mode

CLI mode provides an interactive interface for testing and debugging the
suggestion engine. It reads words from stdin, synthesizes touch points at
each key's center on the QWERTY layout, and displays ranked suggestions.

	inputHandler := cli.NewInputHandler(engine, layout, limit, noFilter)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new features
before deploying to server mode.

# Command Line Flags

The following flags control application behavior:

	-dict string
	    Path to the packed binary dictionary (default "data/main_en.dict")
	-locale string
	    Keyboard locale for digraphs and confusable keys (default "en")
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to return (default from config)
	-no-filter
	    Disable input filtering in CLI mode
	-jitter int
	    Shift synthesized CLI touch points by up to N pixels per axis
	-config string
	    Path to a custom config.toml
	-rebuild-config
	    Rewrite the default config file with builtin defaults and exit
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/softkb/tapserve/internal/cli"
	"github.com/softkb/tapserve/pkg/config"
	"github.com/softkb/tapserve/pkg/dictionary"
	"github.com/softkb/tapserve/pkg/keyboard"
	"github.com/softkb/tapserve/pkg/server"
	"github.com/softkb/tapserve/pkg/suggest"
)

const (
	Version = "0.9.0-beta"
	AppName = "tapserve"
	gh      = "https://github.com/softkb/tapserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	dictPath := flag.String("dict", "data/main_en.dict", "Path to the packed binary dictionary")
	locale := flag.String("locale", "en", "Keyboard locale")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of suggestions to return (0 uses the config default)")
	noFilter := flag.Bool("no-filter", false, "Disable input filtering (DBG only) - accepts raw input (numbers, symbols, etc)")
	jitter := flag.Int("jitter", 0, "Shift synthesized CLI touch points by up to N pixels per axis")
	configFile := flag.String("config", "", "Path to a custom config.toml")
	rebuildConfig := flag.Bool("rebuild-config", false, "Rewrite the default config file with builtin defaults and exit")

	flag.Parse()

	if *showVersion {
		showVersionInfo()
		os.Exit(0)
	}

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Info("Config file rebuilt with defaults")
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	blob, err := dictionary.OpenBlob(*dictPath)
	if err != nil {
		log.Fatalf("Failed to open dictionary: %v", err)
	}
	defer blob.Close()

	layout := keyboard.Qwerty(*locale)
	if appConfig.Proximity.GridWidth > 0 {
		layout.GridWidth = appConfig.Proximity.GridWidth
	}
	if appConfig.Proximity.GridHeight > 0 {
		layout.GridHeight = appConfig.Proximity.GridHeight
	}
	if appConfig.Proximity.ListWidth > 0 {
		layout.ProximityListWidth = appConfig.Proximity.ListWidth
	}
	prox, err := keyboard.NewProximityInfo(layout, keyboard.DefaultAdditionalProximityChars(), appConfig.Debug.Proximity)
	if err != nil {
		log.Fatalf("Failed to build proximity model: %v", err)
	}

	engine := suggest.NewEngine(blob, prox, suggest.Options{
		TypedLetterMultiplier: appConfig.Engine.TypedLetterMultiplier,
		FullWordMultiplier:    appConfig.Engine.FullWordMultiplier,
		MaxErrors:             appConfig.Engine.MaxErrors,
		TwoWordsMaxErrors:     appConfig.Engine.TwoWordErrors,
		MaxWords:              appConfig.Engine.MaxWords,
		EnableSplit:           appConfig.Engine.EnableSplit,
		EnableCompletion:      appConfig.Engine.EnableCompletion,
		DebugDict:             appConfig.Debug.Dict,
	})
	engine.SetUserDict(suggest.NewUserDict())

	suggestLimit := *limit
	if suggestLimit < 1 {
		suggestLimit = appConfig.Server.DefaultLimit
	}

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"locale", *locale,
			"limit", suggestLimit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(engine, layout, suggestLimit, *noFilter, *jitter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, appConfig, configPath)

	showStartupInfo(*dictPath, blob.Len())

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// showVersionInfo prints the styled version banner.
func showVersionInfo() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()

	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["version"] = lipgloss.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ TapServe ] Serves really Fast touch suggestions!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dictPath string, dictSize int) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("==========")
	println(" TapServe ")
	println("==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("dictionary: ( %s, %d bytes )", dictPath, dictSize)
	log.Info("status: ready")
	println("==========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
