package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fieldlens/fieldlens/internal/audit"
	"github.com/fieldlens/fieldlens/internal/channels"
	"github.com/fieldlens/fieldlens/internal/config"
	"github.com/fieldlens/fieldlens/internal/dependency"
	"github.com/fieldlens/fieldlens/internal/flow"
)

var gatewayConsole bool

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Serve dialogues over the enabled channels",
	RunE:  runGateway,
}

func init() {
	gatewayCmd.Flags().BoolVar(&gatewayConsole, "console", false, "Also serve an interactive console session")
}

func runGateway(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("%s Starting fieldlens gateway...\n", logo)

	b := container.MessageBus()
	router := flow.NewRouter(b, container.Engine())
	channelMgr := channels.NewManager(cfg, b, gatewayConsole)

	if enabled := channelMgr.EnabledChannels(); len(enabled) > 0 {
		fmt.Printf("✓ Channels enabled: %s\n", strings.Join(enabled, ", "))
	} else {
		fmt.Println("Warning: no channels enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return router.Run(gctx) })
	g.Go(func() error { return channelMgr.StartAll(gctx) })

	if store := container.AuditStore(); store != nil {
		sweeper, err := audit.NewSweeper(store, cfg.Audit.SweepSchedule)
		if err != nil {
			return err
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	fmt.Printf("%s Gateway running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "gateway error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
