// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds everything a ringburst run needs, bound from flags and
// RINGBURST_* environment variables.
type Config struct {
	Capacity    uint64
	Producers   int
	BurstMin    int
	BurstMax    int
	Duration    string
	LogLevel    string
	LogPath     string
	MetricsAddr string
	UseMmap     bool
}

// SetDefaults returns a Config populated with sensible defaults, ready
// to be overridden by flags or environment variables.
func SetDefaults() *Config {
	return &Config{
		Capacity:    4096,
		Producers:   4,
		BurstMin:    1,
		BurstMax:    8,
		Duration:    "5s",
		LogLevel:    "info",
		MetricsAddr: "127.0.0.1:9090",
	}
}

// LoadConfig binds v (already populated from flags by the caller) on
// top of the defaults and environment, then validates the result.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := SetDefaults()

	v.SetEnvPrefix("RINGBURST")
	v.AutomaticEnv()

	if v.IsSet("capacity") {
		cfg.Capacity = v.GetUint64("capacity")
	}
	if v.IsSet("producers") {
		cfg.Producers = v.GetInt("producers")
	}
	if v.IsSet("burst-min") {
		cfg.BurstMin = v.GetInt("burst-min")
	}
	if v.IsSet("burst-max") {
		cfg.BurstMax = v.GetInt("burst-max")
	}
	if v.IsSet("duration") {
		cfg.Duration = v.GetString("duration")
	}
	if v.IsSet("log-level") {
		cfg.LogLevel = v.GetString("log-level")
	}
	if v.IsSet("log-path") {
		cfg.LogPath = v.GetString("log-path")
	}
	if v.IsSet("metrics-addr") {
		cfg.MetricsAddr = v.GetString("metrics-addr")
	}
	if v.IsSet("mmap") {
		cfg.UseMmap = v.GetBool("mmap")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the core package itself would
// otherwise only discover by panicking deep inside New/Acquire.
// Wrapped with pkg/errors so the CLI can print a stack-free chain of
// "what failed, because of what" without reaching for a third
// assertion library just for this one boundary.
func (c *Config) Validate() error {
	if c.Capacity == 0 {
		return errors.New("capacity must be positive")
	}
	if c.Producers <= 0 {
		return errors.New("producers must be positive")
	}
	if c.BurstMin <= 0 {
		return errors.New("burst-min must be positive")
	}
	if c.BurstMax < c.BurstMin {
		return errors.Wrapf(errors.New("burst-max must be >= burst-min"),
			"got burst-min=%d burst-max=%d", c.BurstMin, c.BurstMax)
	}
	if uint64(c.BurstMax) > c.Capacity {
		return errors.Errorf("burst-max %d exceeds capacity %d", c.BurstMax, c.Capacity)
	}
	return nil
}
