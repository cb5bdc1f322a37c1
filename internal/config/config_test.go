package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
server:
  port: "9090"
chain:
  id: "84532"
  contract_address: "0x1111111111111111111111111111111111111111"
quiz:
  catalog_path: data/quiz-questions.json
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SIGNER_PRIVATE_KEY", "deadbeef")
	t.Setenv("CHAIN_ID", "8453")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port from yaml, got %q", cfg.Server.Port)
	}
	if cfg.Signer.PrivateKey != "deadbeef" {
		t.Fatalf("expected signer key from env, got %q", cfg.Signer.PrivateKey)
	}
	if cfg.Chain.ID != "8453" {
		t.Fatalf("env must override yaml chain id, got %q", cfg.Chain.ID)
	}
	if cfg.RPCURL() != "https://mainnet.base.org" {
		t.Fatalf("unexpected rpc url %q", cfg.RPCURL())
	}
}

func TestLoadMissingFileUsesEnvOnly(t *testing.T) {
	t.Setenv("NFT_CONTRACT_ADDRESS", "0x2222222222222222222222222222222222222222")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Chain.ContractAddress != "0x2222222222222222222222222222222222222222" {
		t.Fatalf("expected contract address from env, got %q", cfg.Chain.ContractAddress)
	}
	if cfg.RPCURL() != "https://sepolia.base.org" {
		t.Fatalf("expected sepolia default, got %q", cfg.RPCURL())
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("30s", time.Minute); got != 30*time.Second {
		t.Fatalf("expected 30s, got %v", got)
	}
	if got := TTLDuration("garbage", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %v", got)
	}
}
