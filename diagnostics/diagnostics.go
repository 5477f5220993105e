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

// Package diagnostics is a write-only SQLite audit sink for the control
// loop's book updates, brain predictions, and order lifecycle transitions.
// Nothing in the engine ever reads this database back; it exists purely
// for offline post-mortem inspection, so there is no query surface here at
// all, only prepared-statement inserts.
package diagnostics

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

const (
	createBookUpdatesTable = `
CREATE TABLE IF NOT EXISTS book_updates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	mid REAL,
	spread REAL,
	imbalance REAL,
	intensity REAL
)`
	createPredictionsTable = `
CREATE TABLE IF NOT EXISTS predictions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	mu REAL,
	sigma_epistemic REAL,
	snr REAL
)`
	createOrderEventsTable = `
CREATE TABLE IF NOT EXISTS order_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	cl_ord_id TEXT NOT NULL,
	status TEXT NOT NULL,
	detail TEXT
)`

	insertBookUpdateQuery = `INSERT INTO book_updates (ts, mid, spread, imbalance, intensity) VALUES (?, ?, ?, ?, ?)`
	insertPredictionQuery = `INSERT INTO predictions (ts, mu, sigma_epistemic, snr) VALUES (?, ?, ?, ?)`
	insertOrderEventQuery = `INSERT INTO order_events (ts, cl_ord_id, status, detail) VALUES (?, ?, ?, ?)`
)

// Sink is a write-only SQLite diagnostics sink with one prepared statement
// per event kind, initialized once and reused for every insert.
type Sink struct {
	db *sql.DB

	stmtBookUpdate *sql.Stmt
	stmtPrediction *sql.Stmt
	stmtOrderEvent *sql.Stmt
}

// Open creates (if needed) the diagnostics database at dbPath and prepares
// its insert statements.
func Open(dbPath string) (*Sink, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("diagnostics: open database: %w", err)
	}

	s := &Sink{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("diagnostics: init schema: %w", err)
	}

	if s.stmtBookUpdate, err = db.Prepare(insertBookUpdateQuery); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("diagnostics: prepare book_updates: %w", err)
	}
	if s.stmtPrediction, err = db.Prepare(insertPredictionQuery); err != nil {
		_ = s.stmtBookUpdate.Close()
		_ = db.Close()
		return nil, fmt.Errorf("diagnostics: prepare predictions: %w", err)
	}
	if s.stmtOrderEvent, err = db.Prepare(insertOrderEventQuery); err != nil {
		_ = s.stmtBookUpdate.Close()
		_ = s.stmtPrediction.Close()
		_ = db.Close()
		return nil, fmt.Errorf("diagnostics: prepare order_events: %w", err)
	}

	log.Printf("[DIAGNOSTICS] sqlite sink opened at %s", dbPath)
	return s, nil
}

func (s *Sink) initSchema() error {
	for _, stmt := range []string{createBookUpdatesTable, createPredictionsTable, createOrderEventsTable} {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordBookUpdate logs one book snapshot's derived metrics.
func (s *Sink) RecordBookUpdate(ts string, mid, spread, imbalance, intensity float64) {
	if _, err := s.stmtBookUpdate.Exec(ts, mid, spread, imbalance, intensity); err != nil {
		log.Printf("[DIAGNOSTICS] record book update failed: %v", err)
	}
}

// RecordPrediction logs one brain inference result.
func (s *Sink) RecordPrediction(ts string, mu, sigmaEpistemic, snr float64) {
	if _, err := s.stmtPrediction.Exec(ts, mu, sigmaEpistemic, snr); err != nil {
		log.Printf("[DIAGNOSTICS] record prediction failed: %v", err)
	}
}

// RecordOrderEvent logs one order lifecycle transition.
func (s *Sink) RecordOrderEvent(ts, clOrdID, status, detail string) {
	if _, err := s.stmtOrderEvent.Exec(ts, clOrdID, status, detail); err != nil {
		log.Printf("[DIAGNOSTICS] record order event failed: %v", err)
	}
}

// Close releases the prepared statements and the underlying connection.
func (s *Sink) Close() error {
	_ = s.stmtBookUpdate.Close()
	_ = s.stmtPrediction.Close()
	_ = s.stmtOrderEvent.Close()
	return s.db.Close()
}
