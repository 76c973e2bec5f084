package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/cli/config"
)

func writeBotConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bot.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadBotConfiguration(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		path := writeBotConfig(t, `
[persona]
greeting = "Ahlan wa sahlan!"
fallback = "Maaf, coba lagi."

[[topic_alias]]
alias = "bersuci"
topic = "wudhu"

[[topic_alias]]
alias = "sedekap"
topic = "posisi_tangan_shalat"
`)

		cfg, err := config.LoadBotConfiguration(path)
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.Persona.Greeting).Equal("Ahlan wa sahlan!")
		gt.Array(t, cfg.TopicAliases).Length(2)
	})

	t.Run("duplicate alias is rejected", func(t *testing.T) {
		path := writeBotConfig(t, `
[[topic_alias]]
alias = "bersuci"
topic = "wudhu"

[[topic_alias]]
alias = "bersuci"
topic = "mandi"
`)

		_, err := config.LoadBotConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("alias without a topic is rejected", func(t *testing.T) {
		path := writeBotConfig(t, `
[[topic_alias]]
alias = "bersuci"
`)

		_, err := config.LoadBotConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("malformed TOML is rejected", func(t *testing.T) {
		path := writeBotConfig(t, `[persona`)
		_, err := config.LoadBotConfiguration(path)
		gt.Error(t, err)
	})
}

func TestBot_Configure(t *testing.T) {
	t.Run("empty path keeps the defaults", func(t *testing.T) {
		cfg := config.NewBotForTest("")
		persona, aliases, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, persona).NotNil()
		gt.S(t, persona.Greeting).Contains("Kitab Mazhab AI")
		gt.Value(t, len(aliases)).Equal(0)
	})

	t.Run("overrides merge onto the defaults", func(t *testing.T) {
		path := writeBotConfig(t, `
[persona]
greeting = "Ahlan!"

[[topic_alias]]
alias = "bersuci"
topic = "wudhu"
`)

		cfg := config.NewBotForTest(path)
		persona, aliases, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, persona.Greeting).Equal("Ahlan!")
		gt.S(t, persona.Fallback).Contains("Mohon maaf")
		gt.Value(t, aliases["bersuci"]).Equal("wudhu")
	})
}
