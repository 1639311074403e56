package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Claude        ClaudeConfig             `toml:"claude"`
	Accounts      map[string]AccountConfig `toml:"accounts"`
	Options       OptionsConfig            `toml:"options"`
	Notifications NotificationsConfig      `toml:"notifications"`
}

// ClaudeConfig holds the text-generation provider settings. Environment
// variables override both fields, see ResolveAPIKey and ResolveModel.
type ClaudeConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// AccountConfig is one platform account, keyed in Accounts by the platform
// name ("twitter", "reddit", ...). UserID is the platform-native account id;
// some endpoints need it in the URL.
type AccountConfig struct {
	AccessToken string `toml:"access_token"`
	UserID      string `toml:"user_id"`
}

type OptionsConfig struct {
	SaveLocation string `toml:"save_location"`
	NbComments   int    `toml:"nb_comments"`
}

type NotificationsConfig struct {
	Enabled          bool   `toml:"enabled"`
	SystemNotify     bool   `toml:"system_notify"`
	DiscordWebhook   string `toml:"discord_webhook"`
	DiscordMentionID string `toml:"discord_mention_id"`
	TelegramBotToken string `toml:"telegram_bot_token"`
	TelegramChatID   string `toml:"telegram_chat_id"`
}

const defaultClaudeModel = "claude-sonnet-4-20250514"

func GetConfigPath() string {
	currentDirConfig := "config.toml"
	if _, err := os.Stat(currentDirConfig); err == nil {
		return currentDirConfig
	}
	return filepath.Join(GetConfigDir(), "config.toml")
}

func GetConfigDir() string {
	var configDir string
	var err error

	if runtime.GOOS == "darwin" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatal(err)
		}
		configDir = filepath.Join(homeDir, ".config")
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			log.Fatal(err)
		}
	}

	return filepath.Join(configDir, "autocomment")
}

func SaveConfig(cfg *Config, configPath string) error {
	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	return encoder.Encode(cfg)
}

func EnsureConfigExists(configPath string) error {
	if _, err := os.Stat(filepath.Dir(configPath)); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(configPath), os.ModePerm); err != nil {
			return err
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveConfig(CreateDefaultConfig(), configPath); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
	}

	return nil
}

func LoadConfig(configPath string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, err
	}

	if config.Options.SaveLocation == "" {
		return nil, fmt.Errorf("save_location is empty in %v", configPath)
	}
	config.Options.SaveLocation = filepath.ToSlash(config.Options.SaveLocation)

	if config.Options.NbComments <= 0 {
		config.Options.NbComments = 3
	}
	if config.Accounts == nil {
		config.Accounts = map[string]AccountConfig{}
	}

	return &config, nil
}

func CreateDefaultConfig() *Config {
	return &Config{
		Claude: ClaudeConfig{
			APIKey: "",
			Model:  "",
		},
		Accounts: map[string]AccountConfig{
			"twitter":   {},
			"reddit":    {},
			"linkedin":  {},
			"threads":   {},
			"instagram": {},
		},
		Options: OptionsConfig{
			SaveLocation: "/path/to/save/data/to",
			NbComments:   3,
		},
		Notifications: NotificationsConfig{
			Enabled:      false,
			SystemNotify: true,
		},
	}
}

// ResolveAPIKey returns the Claude API key, preferring the environment over
// the config file.
func (c *Config) ResolveAPIKey() string {
	for _, name := range []string{"CLAUDE_API_KEY_OWNER", "ANTHROPIC_API_KEY_OWNER"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return c.Claude.APIKey
}

// ResolveModel returns the model id, preferring the environment over the
// config file, falling back to a fixed default.
func (c *Config) ResolveModel() string {
	for _, name := range []string{"TIPOTE_CLAUDE_MODEL", "CLAUDE_MODEL", "ANTHROPIC_MODEL"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	if c.Claude.Model != "" {
		return c.Claude.Model
	}
	return defaultClaudeModel
}

// Account returns the configured account for a platform, if any.
func (c *Config) Account(platform string) (AccountConfig, bool) {
	account, ok := c.Accounts[platform]
	return account, ok
}
