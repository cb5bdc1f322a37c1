package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Base mainnet and Base Sepolia, the two networks the badge contract is
// deployed to.
const (
	ChainIDBase        = "8453"
	ChainIDBaseSepolia = "84532"

	baseRPC        = "https://mainnet.base.org"
	baseSepoliaRPC = "https://sepolia.base.org"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Signer struct {
		// PrivateKey is the mint authorization key. Empty disables minting;
		// the service keeps serving quizzes either way.
		PrivateKey string `yaml:"private_key"`
	} `yaml:"signer"`
	Chain struct {
		ID              string `yaml:"id"`
		RPCURL          string `yaml:"rpc_url"`
		ContractAddress string `yaml:"contract_address"`
	} `yaml:"chain"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		CatalogPath string `yaml:"catalog_path"`
		TTL         string `yaml:"ttl"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path and applies environment overrides. A
// missing file is not an error so the service can run on env vars alone.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	overrideEnv(&cfg.Signer.PrivateKey, "SIGNER_PRIVATE_KEY")
	overrideEnv(&cfg.Chain.ID, "CHAIN_ID")
	overrideEnv(&cfg.Chain.RPCURL, "RPC_URL")
	overrideEnv(&cfg.Chain.ContractAddress, "NFT_CONTRACT_ADDRESS")
	overrideEnv(&cfg.Postgres.URL, "POSTGRES_URL")
	overrideEnv(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideEnv(&cfg.Quiz.CatalogPath, "CATALOG_PATH")
	return cfg, nil
}

func overrideEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

// RPCURL resolves the RPC endpoint: an explicit URL wins, otherwise the
// chain ID picks the public Base endpoint (Sepolia by default).
func (c Config) RPCURL() string {
	if c.Chain.RPCURL != "" {
		return c.Chain.RPCURL
	}
	if c.Chain.ID == ChainIDBase {
		return baseRPC
	}
	return baseSepoliaRPC
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
