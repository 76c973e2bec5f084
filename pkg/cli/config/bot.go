package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/usecase"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Bot holds configuration for the assistant's canned texts and topic
// aliases, loaded from an optional TOML file.
type Bot struct {
	configPath string
}

// BotConfig is the TOML shape of the bot configuration file
type BotConfig struct {
	Persona      PersonaConfig      `toml:"persona"`
	TopicAliases []TopicAliasConfig `toml:"topic_alias"`
}

// PersonaConfig overrides the canned texts. Empty fields keep the
// defaults.
type PersonaConfig struct {
	Greeting string `toml:"greeting"`
	Help     string `toml:"help"`
	Reset    string `toml:"reset"`
	Fallback string `toml:"fallback"`
	Empty    string `toml:"empty"`
}

// TopicAliasConfig maps a user-facing term to a knowledge base topic
type TopicAliasConfig struct {
	Alias string `toml:"alias"`
	Topic string `toml:"topic"`
}

// Validate checks if the TopicAliasConfig is valid
func (t *TopicAliasConfig) Validate() error {
	if t.Alias == "" {
		return goerr.New("topic alias is required")
	}
	if t.Topic == "" {
		return goerr.New("topic alias target is required", goerr.V("alias", t.Alias))
	}
	return nil
}

// Validate checks if the BotConfig is valid
func (c *BotConfig) Validate() error {
	seen := make(map[string]bool)
	for _, alias := range c.TopicAliases {
		if err := alias.Validate(); err != nil {
			return goerr.Wrap(err, "invalid topic alias")
		}
		if seen[alias.Alias] {
			return goerr.New("duplicate topic alias", goerr.V("alias", alias.Alias))
		}
		seen[alias.Alias] = true
	}
	return nil
}

func (b *Bot) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bot-config",
			Usage:       "Path to an optional TOML file with persona texts and topic aliases",
			Category:    "Knowledge",
			Sources:     cli.EnvVars("KITAB_BOT_CONFIG"),
			Destination: &b.configPath,
		},
	}
}

func (b Bot) LogValue() slog.Value {
	return slog.GroupValue(slog.String("config_path", b.configPath))
}

// Configure loads the bot configuration and returns the persona plus
// the topic alias table. Without a config file both fall back to the
// built-in defaults.
func (b *Bot) Configure() (*usecase.Persona, map[string]string, error) {
	persona := usecase.DefaultPersona()
	if b.configPath == "" {
		return persona, nil, nil
	}

	cfg, err := LoadBotConfiguration(b.configPath)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Persona.Greeting != "" {
		persona.Greeting = cfg.Persona.Greeting
	}
	if cfg.Persona.Help != "" {
		persona.Help = cfg.Persona.Help
	}
	if cfg.Persona.Reset != "" {
		persona.Reset = cfg.Persona.Reset
	}
	if cfg.Persona.Fallback != "" {
		persona.Fallback = cfg.Persona.Fallback
	}
	if cfg.Persona.Empty != "" {
		persona.Empty = cfg.Persona.Empty
	}

	aliases := make(map[string]string, len(cfg.TopicAliases))
	for _, alias := range cfg.TopicAliases {
		aliases[alias.Alias] = alias.Topic
	}

	return persona, aliases, nil
}

// LoadBotConfiguration loads the bot configuration from a TOML file
func LoadBotConfiguration(path string) (*BotConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read bot config file", goerr.V("path", path))
	}

	var config BotConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML bot config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "bot config validation failed", goerr.V("path", path))
	}

	return &config, nil
}
