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

// Package engine wires the codec, order book, signal pipeline, risk
// manager, and executor into the single-threaded control loop that reads
// the quote and trade sessions, updates engine state, and issues orders.
//
// Engine state is touched from exactly one goroutine: the one running Run.
// The quote and trade sessions each run their own reader goroutine (see
// package session), forwarding whole frames over unbuffered channels that
// Run selects on alongside a heartbeat ticker.
package engine

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/gurre/prime-quote-engine/brain"
	"github.com/gurre/prime-quote-engine/codec"
	"github.com/gurre/prime-quote-engine/config"
	"github.com/gurre/prime-quote-engine/constants"
	"github.com/gurre/prime-quote-engine/contextscore"
	"github.com/gurre/prime-quote-engine/diagnostics"
	"github.com/gurre/prime-quote-engine/executor"
	"github.com/gurre/prime-quote-engine/features"
	"github.com/gurre/prime-quote-engine/gaussian"
	"github.com/gurre/prime-quote-engine/idgen"
	"github.com/gurre/prime-quote-engine/orderbook"
	"github.com/gurre/prime-quote-engine/risk"
	"github.com/gurre/prime-quote-engine/session"
)

const (
	predictEveryNTicks = 10
	trainEveryNTicks   = 5
	velocityWindow     = time.Second
	bookDepthLevels    = 3
)

// trainSample is one queued (features, mid) pair awaiting a future mid to
// derive its training target from.
type trainSample struct {
	features []float64
	mid      float64
}

// Engine owns all mutable trading state and the two FIX sessions. Every
// field is touched only from the goroutine running Run.
type Engine struct {
	cfg *config.Config

	quoteSession *session.Session
	tradeSession *session.Session
	builder      *codec.Builder

	quoteSessInfo codec.Session
	tradeSessInfo codec.Session
	quoteSeq      int
	tradeSeq      int

	book     *orderbook.Book
	noise    *gaussian.Window
	ctxNet   *contextscore.Network
	features *features.Window
	brain    *brain.Brain
	risk     *risk.Manager
	exec     *executor.Executor
	ids      *idgen.Generator
	diag     *diagnostics.Sink

	tickTimes     []time.Time
	midTickCount  int
	pendingTrain  []trainSample
	pendingThesis *risk.Position
	lastContext   float64
}

// New assembles an Engine from already-dialed sessions and a loaded
// config. diagSink may be nil, disabling diagnostics recording.
func New(cfg *config.Config, quoteSess, tradeSess *session.Session, diagSink *diagnostics.Sink) *Engine {
	return &Engine{
		cfg:          cfg,
		quoteSession: quoteSess,
		tradeSession: tradeSess,
		builder:      codec.NewBuilder(),
		quoteSessInfo: codec.Session{SenderCompID: cfg.SenderCompID, SenderSubID: "QUOTE", TargetCompID: cfg.TargetCompID, TargetSubID: "QUOTE"},
		tradeSessInfo: codec.Session{SenderCompID: cfg.SenderCompID, SenderSubID: "TRADE", TargetCompID: cfg.TargetCompID, TargetSubID: "TRADE"},
		quoteSeq:      constants.MsgSeqNumInit,
		tradeSeq:      constants.MsgSeqNumInit,
		book:          orderbook.New(),
		noise:         gaussian.NewWindow(20),
		ctxNet:        contextscore.New(0.45),
		features:      features.NewWindow(30),
		brain:         brain.New(features.Dim, 8, 0.05, 20, 42),
		risk:          risk.New(risk.Config{}),
		exec:          executor.New(),
		ids:           idgen.New(),
		diag:          diagSink,
	}
}

func accountFromSenderID(senderCompID string) string {
	idx := -1
	for i := len(senderCompID) - 1; i >= 0; i-- {
		if senderCompID[i] == '.' {
			idx = i
			break
		}
	}
	if idx == -1 {
		return senderCompID
	}
	return senderCompID[idx+1:]
}

// Run logs both sessions on, subscribes to market data, then drives the
// control loop until ctx is cancelled or a session reports an error.
func (e *Engine) Run(ctx context.Context) error {
	e.quoteSession.Run(ctx)
	e.tradeSession.Run(ctx)

	if err := e.logon(e.quoteSession, &e.quoteSeq, e.quoteSessInfo); err != nil {
		return err
	}
	if err := e.logon(e.tradeSession, &e.tradeSeq, e.tradeSessInfo); err != nil {
		return err
	}
	if err := e.subscribeMarketData(); err != nil {
		return err
	}

	heartbeat := time.NewTicker(e.cfg.HeartbeatPeriod)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case frame, ok := <-e.quoteSession.Frames:
			if !ok {
				return nil
			}
			e.handleQuoteFrame(frame)

		case frame, ok := <-e.tradeSession.Frames:
			if !ok {
				return nil
			}
			e.handleTradeFrame(frame)

		case <-heartbeat.C:
			if err := e.sendHeartbeat(e.quoteSession, &e.quoteSeq, e.quoteSessInfo); err != nil {
				return err
			}
			if err := e.sendHeartbeat(e.tradeSession, &e.tradeSeq, e.tradeSessInfo); err != nil {
				return err
			}
		}
	}
}

func (e *Engine) logon(sess *session.Session, seq *int, info codec.Session) error {
	account := accountFromSenderID(e.cfg.SenderCompID)
	msg := e.builder.Logon(info, *seq, account, e.cfg.Password)
	*seq++
	return sess.Send(msg)
}

func (e *Engine) sendHeartbeat(sess *session.Session, seq *int, info codec.Session) error {
	msg := e.builder.Heartbeat(info, *seq)
	*seq++
	return sess.Send(msg)
}

func (e *Engine) subscribeMarketData() error {
	reqID := e.ids.NextID()
	msg := e.builder.MarketDataRequest(e.quoteSessInfo, e.quoteSeq, reqID, e.cfg.Symbol, false)
	e.quoteSeq++
	return e.quoteSession.Send(msg)
}

// handleQuoteFrame processes one frame off the quote socket: it may
// contain a snapshot (35=W), an incremental refresh (35=X), or session
// plumbing (heartbeat/logon ack), which is otherwise ignored.
func (e *Engine) handleQuoteFrame(raw string) {
	mt := msgType(raw)
	switch mt {
	case "W", "X":
		entries := codec.ParseMDEntries(raw, mt == "X")
		for _, entry := range entries {
			e.applyMDEntry(entry)
		}
	default:
	}
}

// applyMDEntry updates the book from one parsed repeating-group entry. An
// entry whose MDEntryType (tag 269) is missing or not one of the known
// bid/offer values is skipped rather than defaulted to a side, per the
// missing-tag policy.
func (e *Engine) applyMDEntry(entry codec.MDEntry) {
	var side orderbook.Side
	switch entry.EntryType {
	case constants.MdEntryTypeBid:
		side = orderbook.Bid
	case constants.MdEntryTypeOffer:
		side = orderbook.Ask
	default:
		return
	}
	isDelete := entry.Action == "2"
	e.book.Update(side, entry.Price, entry.Size, isDelete)
	e.recordTick()

	mid, midOK := e.book.Mid()
	if !midOK {
		return
	}
	e.noise.Push(mid)

	spread, _ := e.book.Spread()
	imbalance := e.book.L1Imbalance()
	intensity := e.book.Intensity()
	velocity := e.velocity()
	noiseLevel := e.noise.Uncertainty()
	contextVal := contextscore.Score(spread*1e5, velocity, imbalance, intensity)
	e.lastContext = contextVal

	depth := e.book.DepthVector(bookDepthLevels)
	e.features.Push(imbalance, spread*1e5, velocity, noiseLevel, contextVal, depth)

	if e.diag != nil {
		e.diag.RecordBookUpdate(time.Now().UTC().Format(time.RFC3339Nano), mid, spread, imbalance, intensity)
	}

	e.onMidUpdate(mid)
}

func (e *Engine) recordTick() {
	now := time.Now()
	e.tickTimes = append(e.tickTimes, now)
	cutoff := now.Add(-velocityWindow)
	i := 0
	for i < len(e.tickTimes) && e.tickTimes[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		e.tickTimes = e.tickTimes[i:]
	}
}

func (e *Engine) velocity() float64 {
	return float64(len(e.tickTimes))
}

// onMidUpdate advances the tick counter, and every predictEveryNTicks
// ticks consults the brain and the risk manager for a trade decision;
// every trainEveryNTicks ticks it trains on the oldest queued sample.
func (e *Engine) onMidUpdate(mid float64) {
	e.midTickCount++

	if vec := e.features.Standardized(); vec != nil {
		e.pendingTrain = append(e.pendingTrain, trainSample{features: vec, mid: mid})
	}

	if e.midTickCount%predictEveryNTicks == 0 {
		e.consultBrain(mid)
	}
	if e.midTickCount%trainEveryNTicks == 0 {
		e.trainOnOldestSample(mid)
	}

	if e.exec.ActivePosition() != nil {
		sigmaCurrent := e.noise.Uncertainty()
		if e.exec.MonitorPosition(mid, sigmaCurrent, e.risk.LambdaEpistemic) {
			e.closeActivePosition(mid)
		}
	}
}

func (e *Engine) consultBrain(mid float64) {
	if !e.ctxNet.IsFavorable(e.lastContext) {
		return
	}
	vec := e.features.Standardized()
	if vec == nil {
		return
	}
	pred := e.brain.Predict(vec)

	if e.diag != nil {
		e.diag.RecordPrediction(time.Now().UTC().Format(time.RFC3339Nano), pred.Mu, pred.SigmaEpistemic, pred.SNR)
	}

	side := "1"
	if pred.Mu < 0.5 {
		side = "2"
	}
	sigmaAleatoric := e.noise.Uncertainty()

	eval, ok := e.risk.Evaluate(mid, pred.Mu, sigmaAleatoric, pred.SigmaEpistemic, side)
	if !ok {
		return
	}
	e.sendNewOrder(mid, pred, side, eval)
}

func (e *Engine) sendNewOrder(mid float64, pred brain.Prediction, side string, eval risk.Evaluation) {
	clOrdID := e.ids.NextID()
	sigmaTotal := math.Hypot(e.noise.Uncertainty(), e.risk.LambdaEpistemic*pred.SigmaEpistemic)

	msg := e.builder.NewOrderSingle(e.tradeSessInfo, e.tradeSeq, clOrdID, e.cfg.Symbol, side, eval.Quantity)
	e.tradeSeq++
	if err := e.tradeSession.Send(msg); err != nil {
		log.Printf("[ENGINE] failed to send new order single: %v", err)
		return
	}

	e.risk.SetStatus(risk.PendingNew)
	e.pendingThesis = &risk.Position{
		ClOrdID:         clOrdID,
		EntryMid:        mid,
		Side:            side,
		Quantity:        eval.Quantity,
		TPPrice:         eval.TPPrice,
		SLPrice:         eval.SLPrice,
		EntryMu:         pred.Mu,
		EntrySigmaTotal: sigmaTotal,
		EntrySNR:        pred.SNR,
	}

	if e.diag != nil {
		e.diag.RecordOrderEvent(time.Now().UTC().Format(time.RFC3339Nano), clOrdID, "PendingNew", side)
	}
}

func (e *Engine) trainOnOldestSample(midNow float64) {
	if len(e.pendingTrain) == 0 {
		return
	}
	sample := e.pendingTrain[0]
	e.pendingTrain = e.pendingTrain[1:]

	target := 0.0
	if midNow > sample.mid {
		target = 1.0
	}
	e.brain.Train(sample.features, target)
}

func (e *Engine) closeActivePosition(mid float64) {
	pos := e.exec.ActivePosition()
	if pos == nil {
		return
	}
	clOrdID := e.ids.NextID()
	exitSide := "2"
	if pos.Side == "2" {
		exitSide = "1"
	}
	msg := e.builder.NewOrderSingle(e.tradeSessInfo, e.tradeSeq, clOrdID, e.cfg.Symbol, exitSide, pos.Quantity)
	e.tradeSeq++
	if err := e.tradeSession.Send(msg); err != nil {
		log.Printf("[ENGINE] failed to send exit order: %v", err)
		return
	}
	if e.diag != nil {
		e.diag.RecordOrderEvent(time.Now().UTC().Format(time.RFC3339Nano), clOrdID, "Exit", exitSide)
	}
	e.exec.ClosePosition()
}

// handleTradeFrame processes one frame off the trade socket: an execution
// report (35=8), a cancel reject (35=9), or a session/business reject.
func (e *Engine) handleTradeFrame(raw string) {
	mt := msgType(raw)
	switch mt {
	case "8", "9", "j", "3":
		report := codec.ParseExecReport(raw)
		e.exec.HandleExecReport(report, e.risk, &e.pendingThesis)
		if e.diag != nil {
			e.diag.RecordOrderEvent(time.Now().UTC().Format(time.RFC3339Nano), report.ClOrdID, e.risk.Status().String(), report.Text)
		}
	default:
	}
}

// msgType extracts the value of tag 35 (MsgType) from a raw FIX message.
// It searches for the SOH-delimited "35=" field rather than a bare
// substring match, since BodyLength values can otherwise coincidentally
// contain the digits "35".
func msgType(raw string) string {
	const needle = "\x0135="
	idx := strings.Index(raw, needle)
	if idx == -1 {
		return ""
	}
	start := idx + len(needle)
	end := strings.IndexByte(raw[start:], 0x01)
	if end == -1 {
		return raw[start:]
	}
	return raw[start : start+end]
}
