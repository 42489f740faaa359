package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/moodlog/internal/api"
	"github.com/mesh-intelligence/moodlog/internal/events"
	"github.com/mesh-intelligence/moodlog/internal/journal"
	"github.com/mesh-intelligence/moodlog/internal/log"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and heat-map over HTTP",
		Long: `Serve exposes the journal over HTTP until interrupted.

When amqp.url is configured, every recorded or deleted entry is also
published to the amqp.exchange topic exchange.`,
		Args: withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: serve.addr or :8000)")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, addr string) (err error) {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	logger, err := s.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	log.SetDefault(logger)

	var opts []journal.Option
	if s.AMQPURL != "" {
		pub, dialErr := events.Dial(s.AMQPURL, s.AMQPExchange, logger)
		if dialErr != nil {
			return fmt.Errorf("connect event broker: %w", dialErr)
		}
		defer func() {
			err = errors.Join(err, pub.Close())
		}()
		opts = append(opts, journal.WithObserver(pub))
		logger.Info("publishing events", "exchange", s.AMQPExchange)
	}

	a, err := openApp(cmd, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()

	if addr == "" {
		addr = s.ServeAddr
	}
	srv := api.NewServer(addr, a.catalog, a.journal,
		api.WithLogger(logger.WithComponent(log.ComponentHTTP)),
		api.WithClock(clock))

	logger.Info("starting",
		log.FieldOperation, log.OpStartup,
		log.FieldBackend, s.Store.Backend,
		log.FieldDataDir, s.Store.DataDir,
		log.FieldAddr, addr)
	return srv.Run(ctx)
}
