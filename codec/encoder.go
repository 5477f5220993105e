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

// Package codec builds and parses FIX 4.4 messages directly against a
// caller-owned byte buffer, without a structured message object. Fields are
// written in wire order as the message is assembled; BodyLength (tag 9) and
// the checksum (tag 10) are computed once the body is complete and sealed
// onto the front and back of the buffer.
package codec

import (
	"strconv"
	"strings"
	"time"

	"github.com/gurre/prime-quote-engine/constants"
)

// Builder assembles one outbound FIX message into a reusable byte buffer.
// Builder is not safe for concurrent use; the control loop owns exactly one
// per session.
type Builder struct {
	buf  strings.Builder
	body strings.Builder
}

// NewBuilder returns a Builder with its internal buffers pre-sized for a
// typical market-data or order message.
func NewBuilder() *Builder {
	b := &Builder{}
	b.buf.Grow(512)
	b.body.Grow(512)
	return b
}

func setField(w *strings.Builder, tag int, value string) {
	w.WriteString(strconv.Itoa(tag))
	w.WriteByte('=')
	w.WriteString(value)
	w.WriteByte(soh)
}

func setFieldIfNotEmpty(w *strings.Builder, tag int, value string) {
	if value != "" {
		setField(w, tag, value)
	}
}

const soh = 0x01

// seal writes BeginString+BodyLength, the already-built body, then the
// checksum, and returns the complete message as a string.
//
// BodyLength is the byte count from just after the BodyLength field's SOH to
// just before the checksum field. The checksum is the sum of all preceding
// bytes (including that trailing SOH) modulo 256, zero-padded to 3 digits.
func (b *Builder) seal(msgType string) string {
	b.buf.Reset()
	setField(&b.buf, constants.TagBeginString, constants.BeginString)

	bodyLen := b.body.Len()
	setField(&b.buf, constants.TagBodyLength, strconv.Itoa(bodyLen))
	b.buf.WriteString(b.body.String())

	head := b.buf.String()
	var checksum int
	for i := 0; i < len(head); i++ {
		checksum += int(head[i])
	}
	checksum %= 256

	b.buf.WriteString(strconv.Itoa(constants.TagCheckSum))
	b.buf.WriteByte('=')
	b.buf.WriteString(pad3(checksum))
	b.buf.WriteByte(soh)

	return b.buf.String()
}

func pad3(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

func sendingTime() string {
	return time.Now().UTC().Format(constants.FixTimeFormat)
}

// Session carries the identifiers shared by every message on one FIX
// session (the QUOTE session and the TRADE session each own their own).
type Session struct {
	SenderCompID string
	SenderSubID  string // "QUOTE" or "TRADE"
	TargetCompID string
	TargetSubID  string // mirrors SenderSubID: identifies which leg the target side expects
}

func (b *Builder) header(msgType string, sess Session, seqNum int) {
	b.body.Reset()
	setField(&b.body, constants.TagMsgType, msgType)
	setField(&b.body, constants.TagSenderCompID, sess.SenderCompID)
	setField(&b.body, constants.TagTargetCompID, sess.TargetCompID)
	setFieldIfNotEmpty(&b.body, constants.TagSenderSubID, sess.SenderSubID)
	setFieldIfNotEmpty(&b.body, constants.TagTargetSubID, sess.TargetSubID)
	setField(&b.body, constants.TagMsgSeqNum, strconv.Itoa(seqNum))
	setField(&b.body, constants.TagSendingTime, sendingTime())
}

// Logon builds a 35=A message. account is the numeric account id derived
// from the sender id's last dotted component.
func (b *Builder) Logon(sess Session, seqNum int, account, password string) string {
	b.header(constants.MsgTypeLogon, sess, seqNum)
	setField(&b.body, constants.TagEncryptMethod, constants.EncryptMethodNone)
	setField(&b.body, constants.TagHeartBtInt, constants.HeartBtInterval)
	setField(&b.body, constants.TagUsername, account)
	setField(&b.body, constants.TagPassword, password)
	setField(&b.body, constants.TagResetSeqNumFlag, constants.ResetSeqNumFlag)
	return b.seal(constants.MsgTypeLogon)
}

// Heartbeat builds a 35=0 message.
func (b *Builder) Heartbeat(sess Session, seqNum int) string {
	b.header(constants.MsgTypeHeartbeat, sess, seqNum)
	return b.seal(constants.MsgTypeHeartbeat)
}

// MarketDataRequest builds a 35=V message subscribing to full incremental
// book updates (bid+ask) for symbol. topOfBook selects 264=1 instead of the
// default full-depth 264=0.
func (b *Builder) MarketDataRequest(sess Session, seqNum int, reqID, symbol string, topOfBook bool) string {
	b.header(constants.MsgTypeMarketDataRequest, sess, seqNum)
	setField(&b.body, constants.TagMdReqID, reqID)
	setField(&b.body, constants.TagSubscriptionRequestType, constants.SubscriptionRequestTypeSubscribe)
	depth := constants.MarketDepthFullBook
	if topOfBook {
		depth = constants.MarketDepthTopOfBook
	}
	setField(&b.body, constants.TagMarketDepth, depth)
	setField(&b.body, constants.TagMdUpdateType, constants.MdUpdateTypeIncremental)

	setField(&b.body, constants.TagNoMdEntryTypes, "2")
	setField(&b.body, constants.TagMdEntryType, constants.MdEntryTypeBid)
	setField(&b.body, constants.TagMdEntryType, constants.MdEntryTypeOffer)

	setField(&b.body, constants.TagNoRelatedSym, "1")
	setField(&b.body, constants.TagSymbol, symbol)
	return b.seal(constants.MsgTypeMarketDataRequest)
}

// NewOrderSingle builds a 35=D market order.
func (b *Builder) NewOrderSingle(sess Session, seqNum int, clOrdID, symbol, side string, qty float64) string {
	b.header(constants.MsgTypeNewOrderSingle, sess, seqNum)
	setField(&b.body, constants.TagClOrdID, clOrdID)
	setField(&b.body, constants.TagHandlInst, "1")
	setField(&b.body, constants.TagSymbol, symbol)
	setField(&b.body, constants.TagSide, side)
	setField(&b.body, constants.TagTransactTime, sendingTime())
	setField(&b.body, constants.TagOrderQty, strconv.FormatFloat(qty, 'f', -1, 64))
	setField(&b.body, constants.TagOrdType, constants.OrdTypeMarket)
	setField(&b.body, constants.TagTimeInForce, constants.TimeInForceGTC)
	return b.seal(constants.MsgTypeNewOrderSingle)
}
