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

// Package constants holds the FIX 4.4 tag numbers and enumerated field
// values used by the codec, order book, and risk/executor packages.
//
// Tags are plain ints rather than a wrapper type: the codec writes directly
// to a byte buffer instead of going through a structured FIX message object,
// so there is no library type to align with.
package constants

// --- Message Types (Tag 35) ---
const (
	MsgTypeLogon      = "A" // Logon
	MsgTypeHeartbeat  = "0" // Heartbeat
	MsgTypeReject     = "3" // Session-level Reject
	MsgTypeBizReject  = "j" // Business Message Reject

	MsgTypeMarketDataRequest     = "V" // Market Data Request
	MsgTypeMarketDataSnapshot    = "W" // Market Data Snapshot/Full Refresh
	MsgTypeMarketDataIncremental = "X" // Market Data Incremental Refresh

	MsgTypeNewOrderSingle  = "D" // New Order Single
	MsgTypeExecutionReport = "8" // Execution Report
	MsgTypeOrderCancelReject = "9" // Order Cancel Reject
)

// --- Protocol Constants ---
const (
	BeginString     = "FIX.4.4"
	FixTimeFormat   = "20060102-15:04:05"
	EncryptMethodNone = "0"
	HeartBtInterval   = "30"
	ResetSeqNumFlag   = "Y"
	MsgSeqNumInit     = 1
)

// --- Subscription Request Types (Tag 263) ---
const (
	SubscriptionRequestTypeSnapshot  = "0"
	SubscriptionRequestTypeSubscribe = "1"
)

// --- MD Entry Types (Tag 269) ---
const (
	MdEntryTypeBid   = "0" // Bid
	MdEntryTypeOffer = "1" // Offer/Ask
)

// --- MD Update Action (Tag 279) ---
const (
	MdUpdateActionNew    = "0"
	MdUpdateActionChange = "1"
	MdUpdateActionDelete = "2"
)

// --- Market Depth (Tag 264) ---
const (
	MarketDepthFullBook = "0"
	MarketDepthTopOfBook = "1"
)

// --- MD Update Type (Tag 265) ---
const (
	MdUpdateTypeIncremental = "1"
)

// --- Order Types (Tag 40) ---
const (
	OrdTypeMarket = "1"
)

// --- Side (Tag 54) ---
const (
	SideBuy  = "1"
	SideSell = "2"
)

// --- Time In Force (Tag 59) ---
const (
	TimeInForceGTC = "1"
)

// --- Order Status (Tag 39) ---
const (
	OrdStatusNew             = "0"
	OrdStatusPartiallyFilled = "1"
	OrdStatusFilled          = "2"
	OrdStatusCanceled        = "4"
	OrdStatusRejected        = "8"
	OrdStatusPendingNew      = "A"
	OrdStatusExpired         = "C"
)

// --- Execution Type (Tag 150) ---
const (
	ExecTypeNew           = "0"
	ExecTypeFilled        = "2"
	ExecTypeCanceled      = "4"
	ExecTypeRejected      = "8"
	ExecTypeExpired       = "C"
)

// --- Standard FIX Tags ---
// Numeric tag identifiers, as they appear to the left of "=" on the wire.
const (
	TagBeginString    = 8
	TagBodyLength     = 9
	TagMsgType        = 35
	TagSenderCompID   = 49
	TagTargetCompID   = 56
	TagSenderSubID    = 50
	TagTargetSubID    = 57
	TagMsgSeqNum      = 34
	TagSendingTime    = 52
	TagEncryptMethod  = 98
	TagHeartBtInt     = 108
	TagUsername       = 553
	TagPassword       = 554
	TagResetSeqNumFlag = 141
	TagCheckSum       = 10

	TagClOrdID      = 11
	TagHandlInst    = 21
	TagSymbol       = 55
	TagSide         = 54
	TagTransactTime = 60
	TagOrderQty     = 38
	TagOrdType      = 40
	TagTimeInForce  = 59

	TagMdReqID                 = 262
	TagSubscriptionRequestType = 263
	TagMarketDepth             = 264
	TagMdUpdateType            = 265
	TagNoMdEntryTypes          = 267
	TagNoRelatedSym            = 146
	TagMdEntryType             = 269
	TagMdEntryPx               = 270
	TagMdEntrySize             = 271
	TagMdUpdateAction          = 279

	TagOrdStatus  = 39
	TagExecType   = 150
	TagExecID     = 17
	TagLastPx     = 31
	TagLastQty    = 32
	TagCumQty     = 14
	TagLeavesQty  = 151
	TagOrdRejReason = 103
	TagCxlRejReason = 102
	TagText         = 58
)
