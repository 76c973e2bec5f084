package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/waha"
	"github.com/urfave/cli/v3"
)

// Waha holds configuration for the WAHA WhatsApp gateway
type Waha struct {
	baseURL    string
	session    string
	apiKey     string
	webhookKey string
}

func (x *Waha) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "waha-base-url",
			Usage:       "Base URL of the WAHA instance (WhatsApp transport disabled when empty)",
			Category:    "WAHA",
			Sources:     cli.EnvVars("KITAB_WAHA_BASE_URL"),
			Destination: &x.baseURL,
		},
		&cli.StringFlag{
			Name:        "waha-session",
			Usage:       "WAHA session name",
			Category:    "WAHA",
			Value:       "default",
			Sources:     cli.EnvVars("KITAB_WAHA_SESSION"),
			Destination: &x.session,
		},
		&cli.StringFlag{
			Name:        "waha-api-key",
			Usage:       "API key sent to WAHA as X-Api-Key",
			Category:    "WAHA",
			Sources:     cli.EnvVars("KITAB_WAHA_API_KEY"),
			Destination: &x.apiKey,
		},
		&cli.StringFlag{
			Name:        "waha-webhook-key",
			Usage:       "Shared key WAHA must send as X-Webhook-Key on webhook deliveries",
			Category:    "WAHA",
			Sources:     cli.EnvVars("KITAB_WAHA_WEBHOOK_KEY"),
			Destination: &x.webhookKey,
		},
	}
}

func (x Waha) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", x.baseURL),
		slog.String("session", x.session),
		slog.Int("api-key.len", len(x.apiKey)),
		slog.Int("webhook-key.len", len(x.webhookKey)),
	)
}

// WebhookKey returns the shared webhook key
func (x *Waha) WebhookKey() string {
	return x.webhookKey
}

// IsConfigured returns true when a WAHA base URL is set
func (x *Waha) IsConfigured() bool {
	return x.baseURL != ""
}

// Configure creates a WAHA client from the configured flags. Returns
// nil if no base URL is set.
func (x *Waha) Configure() (*waha.Client, error) {
	if x.baseURL == "" {
		return nil, nil
	}

	opts := []waha.ClientOption{
		waha.WithSession(x.session),
	}
	if x.apiKey != "" {
		opts = append(opts, waha.WithAPIKey(x.apiKey))
	}

	client, err := waha.NewClient(x.baseURL, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create WAHA client")
	}

	return client, nil
}
