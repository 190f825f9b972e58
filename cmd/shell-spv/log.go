// Copyright (c) 2025 The shell developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/toole-brendan/shell/blockchain"
	"github.com/toole-brendan/shell/peer"
	"github.com/toole-brendan/shell/txlookup"
)

// logRotator writes logged messages to a rotating log file, overwritten by
// initLogRotator once the log directory from the config is known.
var logRotator *rotator.Rotator

// logWriter implements an io.Writer that outputs to both standard output
// and a rotating log file.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	logRotator.Write(p)
	return len(p), nil
}

// backendLog is the logging backend used to create all subsystem loggers.
var backendLog = btclog.NewBackend(logWriter{})

var (
	log      = backendLog.Logger("SHLD")
	peerLog  = backendLog.Logger("PEER")
	chainLog = backendLog.Logger("CHNS")
	txlkLog  = backendLog.Logger("TXLK")
)

// subsystemLoggers maps each subsystem identifier to its logger, the usual
// btcd-family top-level log.go wiring generalized across every package
// that exposes a UseLogger hook.
var subsystemLoggers = map[string]btclog.Logger{
	"SHLD": log,
	"PEER": peerLog,
	"CHNS": chainLog,
	"TXLK": txlkLog,
}

func init() {
	peer.UseLogger(peerLog)
	blockchain.UseLogger(chainLog)
	txlookup.UseLogger(txlkLog)
}

// initLogRotator opens the log file at logFile and sets up a rotator that
// rolls it over when it reaches 10 MiB, keeping up to 3 old copies.
func initLogRotator(logFile string) error {
	logDir := filepath.Dir(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// setLogLevel sets the logging level for the named subsystem. "all" applies
// level to every registered subsystem.
func setLogLevel(subsystemID string, level string) {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return
	}

	if subsystemID == "all" {
		for _, l := range subsystemLoggers {
			l.SetLevel(lvl)
		}
		return
	}

	if l, ok := subsystemLoggers[subsystemID]; ok {
		l.SetLevel(lvl)
	}
}
