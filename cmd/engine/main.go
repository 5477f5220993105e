/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command engine runs the FIX 4.4 trading engine: it dials the QUOTE and
// TRADE sessions, runs the control loop until the process receives a
// termination signal or a session closes, then shuts down in order.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gurre/prime-quote-engine/config"
	"github.com/gurre/prime-quote-engine/diagnostics"
	"github.com/gurre/prime-quote-engine/engine"
	"github.com/gurre/prime-quote-engine/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config load failed: %v", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("config invalid: %v", err)
		return 1
	}

	var diagSink *diagnostics.Sink
	if cfg.DiagDBPath != "" {
		diagSink, err = diagnostics.Open(cfg.DiagDBPath)
		if err != nil {
			log.Printf("diagnostics sink failed to open: %v", err)
			return 1
		}
		defer diagSink.Close()
	}

	quoteSess, err := session.Dial(cfg.QuoteAddr(), cfg.DialTimeout)
	if err != nil {
		log.Printf("quote session dial failed: %v", err)
		return 1
	}
	defer quoteSess.Close()

	tradeSess, err := session.Dial(cfg.TradeAddr(), cfg.DialTimeout)
	if err != nil {
		log.Printf("trade session dial failed: %v", err)
		return 1
	}
	defer tradeSess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Print("shutdown signal received")
		cancel()
	}()

	eng := engine.New(cfg, quoteSess, tradeSess, diagSink)
	if err := eng.Run(ctx); err != nil {
		log.Printf("engine run failed: %v", err)
		return 1
	}
	return 0
}
