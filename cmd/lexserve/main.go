// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the dictionary lookup server and CLI application.

LexServe loads a dictionary of words and meanings into an in-memory trie and
answers prefix, wildcard and misspelled queries against it. It can operate as a
MessagePack IPC server for editors and other processes, or as a CLI for
browsing the dictionary from a terminal.

# Usage

Start the server with default settings:

	lexserve

Use a custom data directory and enable debug mode:

	lexserve -data /path/to/dict -d

Run in CLI mode:

	lexserve -c -limit 10

Pack every loaded entry into one binary chunk and exit:

	lexserve -data dict/ -pack data/dict_0001.bin

The data directory may hold binary chunk files named dict_0001.bin,
dict_0002.bin, ... and tab separated text files with one "word<TAB>meaning"
pair per line.

# Configuration

Runtime configuration lives in a TOML file, created with defaults if missing:

	[lexicon]
	max_distance = 2
	default_limit = 50
	cache_size = 256

	[server]
	max_limit = 1000
	max_query_len = 60

	[dict]
	path = "data/"
	max_words = 0
	normalize = true

	[cli]
	default_limit = 24
	no_filter = false

Flags override the file for the current run only.

# Server Mode

The default mode reads MessagePack requests from stdin and writes one response
per request to stdout. Logs go to stderr. See package server for the protocol.

	{"id": "q1", "q": "ca*", "l": 20}

# CLI Mode

CLI mode reads one query per line and prints numbered results with meanings.
Queries with '*' or '?' are globs, others are prefixes; when nothing starts with
the input the closest words by edit distance are shown instead.

# Command Line Flags

	-version
	    Show current version
	-data string
	    Directory containing dictionary files, or a single file (default from config)
	-config string
	    Path to a config file
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of results to return (default from config)
	-dist int
	    Maximum edit distance for corrections (default from config)
	-words int
	    Maximum words to load, 0 for all (default from config)
	-no-normalize
	    Insert headwords exactly as written
	-no-filter
	    Disable CLI input filtering
	-pack string
	    Write the loaded dictionary to one chunk file and exit
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bastiangx/lexserve/internal/cli"
	"github.com/bastiangx/lexserve/internal/utils"
	"github.com/bastiangx/lexserve/pkg/config"
	"github.com/bastiangx/lexserve/pkg/dictionary"
	"github.com/bastiangx/lexserve/pkg/lexicon"
	"github.com/bastiangx/lexserve/pkg/router"
	"github.com/bastiangx/lexserve/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "lexserve"
	gh      = "https://github.com/bastiangx/lexserve"
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

// main wires the loader, lexicon, router and front end together.
// It does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "", "Directory containing the dictionary files")
	configFile := flag.String("config", "", "Path to a custom config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for browsing and debugging")
	limit := flag.Int("limit", 0, "Number of results to return (0 uses the config)")
	maxDist := flag.Int("dist", -1, "Maximum edit distance for corrections (-1 uses the config)")
	wordLimit := flag.Int("words", -1, "Maximum number of words to load, 0 for all (-1 uses the config)")
	noNormalize := flag.Bool("no-normalize", false, "Insert headwords exactly as written")
	noFilter := flag.Bool("no-filter", false, "Disable CLI input filtering")
	packPath := flag.String("pack", "", "Write the loaded dictionary into one chunk file and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, configPath := config.LoadConfigWithPriority(*configFile)
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))
	applyFlags(appConfig, *dataDir, *maxDist, *wordLimit, *noNormalize, *noFilter)

	lx := lexicon.New()
	opts := dictionary.Options{
		Normalize: appConfig.Dict.Normalize,
		MaxWords:  appConfig.Dict.MaxWords,
	}

	var (
		resolvedDataDir string
		stats           dictionary.LoadStats
		err             error
	)
	if info, statErr := os.Stat(appConfig.Dict.Path); statErr != nil || info.IsDir() {
		pathResolver, perr := utils.NewPathResolver()
		if perr != nil {
			log.Fatalf("Failed to initialize path resolver: %v", perr)
		}
		resolvedDataDir = pathResolver.GetDataDir(appConfig.Dict.Path)
		log.Debugf("Using data dir at: %s", resolvedDataDir)
		stats, err = dictionary.NewLoader(resolvedDataDir, opts).LoadInto(lx)
	} else {
		// a single dictionary file
		resolvedDataDir = filepath.Dir(appConfig.Dict.Path)
		log.Debugf("Using dictionary file: %s", appConfig.Dict.Path)
		stats, err = dictionary.NewLoader(resolvedDataDir, opts).LoadFile(appConfig.Dict.Path, lx)
	}
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}
	log.Debug("Dictionary loaded",
		"words", utils.FormatCount(lx.Len()),
		"files", stats.Files,
		"skipped", stats.Skipped,
		"took", stats.Duration)
	if lx.Len() == 0 {
		log.Warn("Dictionary is empty, every query will come back without matches")
	}

	if *packPath != "" {
		entries := lx.Search("")
		if err := dictionary.WriteChunk(*packPath, entries); err != nil {
			log.Fatalf("Failed to pack dictionary: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Packed %s words into %s\n", utils.FormatCount(len(entries)), *packPath)
		return
	}

	rt := router.New(lx, router.Options{
		MaxDistance: appConfig.Lexicon.MaxDistance,
		MaxQueryLen: appConfig.Server.MaxQueryLen,
		CacheSize:   appConfig.Lexicon.CacheSize,
	})

	if *cliMode {
		log.SetReportTimestamp(false)
		cliLimit := appConfig.CLI.DefaultLimit
		if *limit > 0 {
			cliLimit = *limit
		}
		log.Debug("Input info:", "limit", cliLimit, "noFilter", appConfig.CLI.NoFilter)

		inputHandler := cli.NewInputHandler(rt, cliLimit, appConfig.CLI.NoFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	if *limit > 0 {
		appConfig.Lexicon.DefaultLimit = *limit
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(rt, appConfig)
	showStartupInfo(resolvedDataDir, lx.Len())

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// applyFlags overrides config values with the flags that were set
func applyFlags(cfg *config.Config, dataDir string, maxDist, wordLimit int, noNormalize, noFilter bool) {
	if dataDir != "" {
		cfg.Dict.Path = dataDir
	}
	if maxDist >= 0 {
		cfg.Lexicon.MaxDistance = maxDist
	}
	if wordLimit >= 0 {
		cfg.Dict.MaxWords = wordLimit
	}
	if noNormalize {
		cfg.Dict.Normalize = false
	}
	if noFilter {
		cfg.CLI.NoFilter = true
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ LexServe ] Words, meanings and near misses, served from memory")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dataDir string, words int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" LexServe ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("words: %s", utils.FormatCount(words))
	log.Infof("data dir: ( %s )", dataDir)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
