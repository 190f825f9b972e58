// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultLogFilename   = "shell-spv.log"
	defaultHeaderDirname = "headers"
	defaultLogLevel      = "info"
)

// config defines the command-line options for the shell-spv demo node,
// following the btcd-family jessevdk/go-flags CLI convention.
type config struct {
	Peer       string `long:"peer" description:"host:port of the peer to connect to" default:"127.0.0.1:8333"`
	TestNet    bool   `long:"testnet" description:"use the test network"`
	DataDir    string `long:"datadir" description:"directory to store synced headers in" default:"./shell-spv-data"`
	LogDir     string `long:"logdir" description:"directory to write log files in"`
	DebugLevel string `long:"debuglevel" description:"logging level: trace, debug, info, warn, error, critical" default:"info"`
	SyncOnly   bool   `long:"synconly" description:"exit once header sync completes, instead of idling and waiting for inv messages"`

	ProxyAddr string `long:"proxy" description:"SOCKS5 proxy to dial the peer through (host:port)"`
	ProxyUser string `long:"proxyuser" description:"SOCKS5 proxy username"`
	ProxyPass string `long:"proxypass" description:"SOCKS5 proxy password"`
}

// loadConfig parses command-line options, filling in defaults and
// resolving the log file and header store paths under DataDir.
func loadConfig() (*config, error) {
	cfg := config{
		DebugLevel: defaultLogLevel,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataDir, "logs")
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &cfg, nil
}

func (c *config) logFile() string {
	return filepath.Join(c.LogDir, defaultLogFilename)
}

func (c *config) headerStoreDir() string {
	return filepath.Join(c.DataDir, defaultHeaderDirname)
}
