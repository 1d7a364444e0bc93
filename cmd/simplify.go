package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fieldlens/fieldlens/internal/config"
	"github.com/fieldlens/fieldlens/internal/dependency"
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify TOOL_SLUG",
	Short: "Show how a tool's parameters would be classified",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimplify,
}

func runSimplify(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slug := strings.ToUpper(args[0])
	prompter := newConsolePrompter(ctx)

	_, err = container.Engine().HandleMessage(ctx, prompter, "simplify "+slug)
	return err
}
