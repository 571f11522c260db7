// Package client provides the session commands that talk to a tentcards backend
package client

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/tentcards/internal/clients/tentapi"
	"github.com/KirkDiggler/tentcards/internal/config"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/orchestrators/cardimage"
	"github.com/KirkDiggler/tentcards/internal/orchestrators/printsheet"
	"github.com/KirkDiggler/tentcards/internal/services/session"
)

var (
	// Connection flags
	apiURL  string
	timeout time.Duration
)

// ClientCmd is the root command for all client session commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client session commands for a tentcards backend",
	Long:  `Client commands run a tentcards session against a running backend: search, illustrate and print.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (env TENTCARDS_API_URL)")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall command timeout")

	ClientCmd.AddCommand(searchCmd)
	ClientCmd.AddCommand(generateCmd)
	ClientCmd.AddCommand(regenerateCmd)
	ClientCmd.AddCommand(exportCmd)
}

// newSession builds the API client and a fresh session seeded from the backend snapshot
func newSession(ctx context.Context) (*session.Session, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	api, err := tentapi.NewClient(&tentapi.Config{BaseURL: cfg.APIURL})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create api client")
	}

	return session.New(ctx, &session.Config{
		API:               api,
		GenerationTimeout: cfg.GenerationTimeout,
		Settle: printsheet.SettleOptions{
			ImageTimeout: cfg.ImageTimeout,
			BatchTimeout: cfg.BatchTimeout,
			Concurrency:  cfg.FetchConcurrency,
		},
	})
}

// mountAndWait mounts a binding and blocks until it is no longer generating
func mountAndWait(ctx context.Context, sess *session.Session, name string, surface cardimage.Surface) (*cardimage.Binding, cardimage.View, error) {
	changed := make(chan struct{}, 1)
	b, err := sess.NewBinding(name, surface, func(cardimage.View) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return nil, cardimage.View{}, err
	}
	if err := b.Mount(ctx); err != nil {
		return nil, cardimage.View{}, err
	}

	v := b.State()
	for v.Generating {
		select {
		case <-changed:
			v = b.State()
		case <-ctx.Done():
			b.Unmount()
			return nil, v, errors.FromContext(ctx.Err(), "stopped waiting for "+name)
		}
	}
	return b, v, nil
}
