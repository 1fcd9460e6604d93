package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, ".osp"),
		Env:            v.GetString("env"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		DryRun:         v.GetBool("dry_run"),
		Timeout:        v.GetDuration("timeout"),
	}

	// .env files must be loaded before anything reads the environment
	loadDotEnv(projectRoot)

	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	cfg.FoundryConfig = foundryConfig

	protocol, err := LoadProtocolConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load protocol config: %w", err)
	}
	cfg.Protocol = protocol

	if networkName := v.GetString("network"); networkName != "" {
		network, err := NewNetworkResolver(foundryConfig).Resolve(networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	cfg.Signer = signerConfigFromEnv()

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find foundry.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		foundryToml := filepath.Join(dir, "foundry.toml")
		if _, err := os.Stat(foundryToml); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Foundry project (foundry.toml not found)")
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string) *viper.Viper {
	v := viper.New()

	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".osp"))

	v.SetEnvPrefix("OSP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("env", "dev")
	v.SetDefault("network", "local")
	v.SetDefault("timeout", "10m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("project_root", projectRoot)

	// Missing local config is fine
	_ = v.ReadInConfig()

	return v
}

// signerConfigFromEnv reads the signer selection variables
func signerConfigFromEnv() config.SignerConfig {
	return config.SignerConfig{
		KMSKeyID:        os.Getenv("AWS_KMS_KEY_ID"),
		KMSRegion:       os.Getenv("AWS_REGION"),
		AccessKeyID:     os.Getenv("ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("SECRET_ACCESS_KEY"),
		PrivateKey:      os.Getenv("DEPLOYER_PRIVATE_KEY"),
	}
}
