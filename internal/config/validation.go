package config

import "fmt"

func validateConfig(cfg *Config) error {
	if cfg.APIBase == "" {
		return fmt.Errorf("api_base must not be empty")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.MaxThreads < 1 {
		return fmt.Errorf("max_threads must be at least 1, got %d", cfg.MaxThreads)
	}
	if cfg.ContextNum < 0 {
		return fmt.Errorf("context_num must not be negative, got %d", cfg.ContextNum)
	}
	if cfg.Language != 0 && cfg.Language != 1 {
		return fmt.Errorf("language must be 0 (English) or 1 (Chinese), got %d", cfg.Language)
	}
	switch cfg.ProxyType {
	case "", "http", "socks5":
	default:
		return fmt.Errorf("unsupported proxy type: %s", cfg.ProxyType)
	}
	if cfg.ProxyType != "" && cfg.ProxyAddress == "" {
		return fmt.Errorf("proxy_address required when proxy_type is set")
	}
	return nil
}
