package config

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

const settingsSection = "Settings"

// LoadConfig 读取 INI 配置文件。文件不存在时生成带注释的默认配置再读取。
func LoadConfig(filename string) (Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		if err := generateDefaultConfig(filename); err != nil {
			return Config{}, fmt.Errorf("failed to generate default config file: %v", err)
		}
	}

	f, err := ini.Load(filename)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %v", err)
	}

	// 缺失的 key 保持默认值
	cfg := DefaultConfig()
	if err := f.Section(settingsSection).MapTo(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %v", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %v", err)
	}

	return cfg, nil
}

// generateDefaultConfig 生成默认配置文件
func generateDefaultConfig(filename string) error {
	cfg := DefaultConfig()

	f := ini.Empty()
	if err := f.Section(settingsSection).ReflectFrom(&cfg); err != nil {
		return fmt.Errorf("failed to build default config: %v", err)
	}

	f.Section(settingsSection).Comment = "; 自动生成的默认配置，请填入正确的 api_keys 后重启服务\n; Auto-generated defaults. Set api_keys before restarting."

	if err := f.SaveTo(filename); err != nil {
		return fmt.Errorf("failed to write default config file: %v", err)
	}

	fmt.Printf("默认配置文件已生成: %s\n", filename)
	return nil
}

// SaveConfig 校验后写回配置文件，旧文件先转存为 .backup。
func SaveConfig(cfg Config, filename string) error {
	if err := validateConfig(&cfg); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	f := ini.Empty()
	if err := f.Section(settingsSection).ReflectFrom(&cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	if _, err := os.Stat(filename); err == nil {
		if err := os.Rename(filename, filename+".backup"); err != nil {
			return fmt.Errorf("failed to create backup: %v", err)
		}
	}

	if err := f.SaveTo(filename); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}
