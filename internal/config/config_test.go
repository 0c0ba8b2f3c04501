package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func listFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("rpc", "", "")
	flags.String("owner", "", "")
	flags.Uint64("chain-id", 1, "")
	flags.StringSlice("platform", nil, "")
	flags.String("out", "", "")
	flags.String("pg-dsn", "", "")
	flags.Int("max-retries", 5, "")
	flags.Duration("retry-backoff", 500*time.Millisecond, "")
	flags.Duration("timeout", 30*time.Second, "")
	flags.String("log-level", "info", "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", listFlags())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.ChainID != 1 {
		t.Fatalf("chain id default mismatch: %d", cfg.ChainID)
	}
	if cfg.MaxRetries != 5 {
		t.Fatalf("max retries default mismatch: %d", cfg.MaxRetries)
	}
	if cfg.RetryBackoff != 500*time.Millisecond {
		t.Fatalf("retry backoff default mismatch: %s", cfg.RetryBackoff)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("timeout default mismatch: %s", cfg.Timeout)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level default mismatch: %q", cfg.LogLevel)
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	flags := listFlags()
	err := flags.Parse([]string{
		"--rpc", "http://localhost:8545",
		"--owner", "0x4444444444444444444444444444444444444444",
		"--chain-id", "137",
		"--platform", "uniswap-v3",
		"--max-retries", "2",
	})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCURL != "http://localhost:8545" {
		t.Fatalf("rpc mismatch: %q", cfg.RPCURL)
	}
	if cfg.ChainID != 137 {
		t.Fatalf("chain id mismatch: %d", cfg.ChainID)
	}
	if len(cfg.Platforms) != 1 || cfg.Platforms[0] != "uniswap-v3" {
		t.Fatalf("platforms mismatch: %v", cfg.Platforms)
	}
	if cfg.MaxRetries != 2 {
		t.Fatalf("max retries mismatch: %d", cfg.MaxRetries)
	}
}

func TestGetStringSliceSplitsCommaString(t *testing.T) {
	got := splitAndClean("uniswap-v3, other-dex , ,")
	if len(got) != 2 || got[0] != "uniswap-v3" || got[1] != "other-dex" {
		t.Fatalf("split mismatch: %v", got)
	}
	if splitAndClean("") != nil {
		t.Fatalf("empty input should yield nil")
	}
}
