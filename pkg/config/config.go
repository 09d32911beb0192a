// Package config handles recall-harness configuration via YAML files and
// environment variables.
//
// Configuration is loaded in three layers: defaults, an optional YAML file,
// then HRG_-prefixed environment variable overrides. Validate() should be
// called before use.
//
// Example Usage:
//
//	cfg, err := config.LoadRecall("recall.yaml")
//	if err != nil {
//		log.Fatalf("invalid config: %v", err)
//	}
//	fmt.Printf("descriptors: %s\n", cfg.DescriptorPath)
//
// Environment Variables:
//   - HRG_DESCRIPTOR_PATH: path to the packed descriptor file
//   - HRG_HIGHEST_POWER: largest window exponent
//   - HRG_NUM_QUERIES: held-out query count
//   - HRG_HIGHEST_KNN: measure recall for k in 1..=this
//   - HRG_FRESHENS_PER_INSERT: freshening passes per insert
//   - HRG_TRAINING_PAIRS: random training pairs per insert
//   - HRG_SEED: RNG seed for training-pair selection
//   - HRG_CACHE_DIR: oracle cache directory
//   - HRG_CACHE_ENABLED: enable the oracle cache ("true"/"false")
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RecallConfig holds every knob of the recall evaluation driver.
type RecallConfig struct {
	// DescriptorPath is the packed binary descriptor file to load.
	DescriptorPath string `yaml:"descriptor_path"`
	// HighestPower is the largest insertion-window exponent.
	HighestPower uint `yaml:"highest_power"`
	// NumQueries is the held-out query set size.
	NumQueries int `yaml:"num_queries"`
	// HighestKnn measures recall for every k in 1..=HighestKnn.
	HighestKnn int `yaml:"highest_knn"`
	// FreshensPerInsert is the freshening passes run inside each insert.
	FreshensPerInsert int `yaml:"freshens_per_insert"`
	// TrainingPairs is the random optimize-connection pairs per insert.
	TrainingPairs int `yaml:"training_pairs"`
	// Seed for the training-pair RNG.
	Seed uint64 `yaml:"seed"`
	// CacheDir is where oracle ground truth is persisted.
	CacheDir string `yaml:"cache_dir"`
	// CacheEnabled toggles the oracle cache.
	CacheEnabled bool `yaml:"cache_enabled"`
}

// DefaultRecall returns the defaults matching the reference evaluation
// setup: 2^21 descriptors, 2^18 queries, k up to 32, two freshens and 64
// training pairs per insert.
func DefaultRecall() RecallConfig {
	return RecallConfig{
		DescriptorPath:    "akaze",
		HighestPower:      21,
		NumQueries:        1 << 18,
		HighestKnn:        32,
		FreshensPerInsert: 2,
		TrainingPairs:     64,
		Seed:              42,
		CacheDir:          "./oracle-cache",
		CacheEnabled:      false,
	}
}

// LoadRecall builds a RecallConfig from defaults, an optional YAML file
// (pass "" to skip) and environment overrides, then validates it.
func LoadRecall(path string) (RecallConfig, error) {
	cfg := DefaultRecall()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides fields from HRG_-prefixed environment variables.
func (c *RecallConfig) applyEnv() {
	if v := os.Getenv("HRG_DESCRIPTOR_PATH"); v != "" {
		c.DescriptorPath = v
	}
	if v := os.Getenv("HRG_HIGHEST_POWER"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			c.HighestPower = uint(n)
		}
	}
	if v := os.Getenv("HRG_NUM_QUERIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.NumQueries = n
		}
	}
	if v := os.Getenv("HRG_HIGHEST_KNN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.HighestKnn = n
		}
	}
	if v := os.Getenv("HRG_FRESHENS_PER_INSERT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.FreshensPerInsert = n
		}
	}
	if v := os.Getenv("HRG_TRAINING_PAIRS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TrainingPairs = n
		}
	}
	if v := os.Getenv("HRG_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = n
		}
	}
	if v := os.Getenv("HRG_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("HRG_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.CacheEnabled = b
		}
	}
}

// Validate checks the configuration for values the harness cannot run with.
func (c *RecallConfig) Validate() error {
	if c.DescriptorPath == "" {
		return fmt.Errorf("descriptor_path must be set")
	}
	if c.HighestPower > 30 {
		return fmt.Errorf("highest_power %d is out of range (max 30)", c.HighestPower)
	}
	if c.NumQueries <= 0 {
		return fmt.Errorf("num_queries must be positive, got %d", c.NumQueries)
	}
	if c.HighestKnn <= 0 {
		return fmt.Errorf("highest_knn must be positive, got %d", c.HighestKnn)
	}
	if c.FreshensPerInsert < 0 {
		return fmt.Errorf("freshens_per_insert must be non-negative, got %d", c.FreshensPerInsert)
	}
	if c.TrainingPairs < 0 {
		return fmt.Errorf("training_pairs must be non-negative, got %d", c.TrainingPairs)
	}
	if c.CacheEnabled && c.CacheDir == "" {
		return fmt.Errorf("cache_dir must be set when cache_enabled is true")
	}
	return nil
}

// TotalDescriptors is the number of descriptors the harness needs loaded.
func (c *RecallConfig) TotalDescriptors() int {
	return (1 << c.HighestPower) + c.NumQueries
}
