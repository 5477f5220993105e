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

// Package config loads the engine's runtime configuration from environment
// variables. There is no config file: every field an operator needs to set
// between deployments is sensitive (credentials) or host-specific (address),
// so env vars are the whole surface.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the engine's full runtime configuration.
type Config struct {
	FixHost      string `mapstructure:"fix_host"`
	FixPortQuote string `mapstructure:"fix_port_quote"`
	FixPortTrade string `mapstructure:"fix_port_trade"`
	SenderCompID string `mapstructure:"fix_sender_id"`
	TargetCompID string `mapstructure:"fix_target_id"`
	Password     string `mapstructure:"fix_password"`
	Symbol       string `mapstructure:"fix_symbol"`

	LogLevel   string `mapstructure:"fix_log_level"`
	DiagDBPath string `mapstructure:"fix_diag_db_path"`

	DialTimeout     time.Duration `mapstructure:"fix_dial_timeout"`
	HeartbeatPeriod time.Duration `mapstructure:"fix_heartbeat_period"`
}

// Load reads configuration entirely from environment variables prefixed
// FIX_ (e.g. FIX_HOST, FIX_SENDER_ID).
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("fix_symbol", "1")
	v.SetDefault("fix_log_level", "info")
	v.SetDefault("fix_dial_timeout", 10*time.Second)
	v.SetDefault("fix_heartbeat_period", 25*time.Second)

	for _, key := range []string{
		"fix_host", "fix_port_quote", "fix_port_trade",
		"fix_sender_id", "fix_target_id", "fix_password", "fix_symbol",
		"fix_log_level", "fix_diag_db_path",
		"fix_dial_timeout", "fix_heartbeat_period",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	cfg := &Config{
		FixHost:         v.GetString("fix_host"),
		FixPortQuote:    v.GetString("fix_port_quote"),
		FixPortTrade:    v.GetString("fix_port_trade"),
		SenderCompID:    v.GetString("fix_sender_id"),
		TargetCompID:    v.GetString("fix_target_id"),
		Password:        v.GetString("fix_password"),
		Symbol:          v.GetString("fix_symbol"),
		LogLevel:        v.GetString("fix_log_level"),
		DiagDBPath:      v.GetString("fix_diag_db_path"),
		DialTimeout:     v.GetDuration("fix_dial_timeout"),
		HeartbeatPeriod: v.GetDuration("fix_heartbeat_period"),
	}
	return cfg, nil
}

// Validate checks that every field required to establish both FIX sessions
// is present. DiagDBPath and LogLevel are optional.
func (c *Config) Validate() error {
	required := map[string]string{
		"FIX_HOST":        c.FixHost,
		"FIX_PORT_QUOTE":  c.FixPortQuote,
		"FIX_PORT_TRADE":  c.FixPortTrade,
		"FIX_SENDER_ID":   c.SenderCompID,
		"FIX_TARGET_ID":   c.TargetCompID,
		"FIX_PASSWORD":    c.Password,
	}
	for env, val := range required {
		if val == "" {
			return fmt.Errorf("config: %s is required", env)
		}
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("config: fix_dial_timeout must be > 0")
	}
	if c.HeartbeatPeriod <= 0 {
		return fmt.Errorf("config: fix_heartbeat_period must be > 0")
	}
	return nil
}

// QuoteAddr returns the host:port for the market-data session.
func (c *Config) QuoteAddr() string {
	return c.FixHost + ":" + c.FixPortQuote
}

// TradeAddr returns the host:port for the order-entry session.
func (c *Config) TradeAddr() string {
	return c.FixHost + ":" + c.FixPortTrade
}
