package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldlens/fieldlens/internal/config"
	"github.com/fieldlens/fieldlens/internal/providers"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show fieldlens status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Printf("%s fieldlens Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:     %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	fmt.Printf("Model:      %s\n", cfg.Defaults.Model)
	fmt.Printf("Classifier: %s\n", cfg.Classifier.Strategy)
	fmt.Printf("Toolkits:   %s\n", cfg.CatalogDir())
	auditState := "disabled"
	if cfg.Audit.Enabled {
		auditState = fmt.Sprintf("%s (keep %dd)", cfg.AuditDir(), cfg.Audit.RetentionDays)
	}
	fmt.Printf("Audit:      %s\n\n", auditState)

	fmt.Println("Providers:")
	for _, spec := range providers.PROVIDERS {
		p := cfg.ProviderByName(spec.Name)
		if p == nil {
			continue
		}
		if p.APIKey != "" {
			fmt.Printf("  %-12s ✓\n", spec.Name)
		} else {
			fmt.Printf("  %-12s (not set)\n", spec.Name)
		}
	}

	fmt.Println("\nChannels:")
	printChannelState("slack", cfg.Channels.Slack.Enabled)
	printChannelState("telegram", cfg.Channels.Telegram.Enabled)
	printChannelState("webform", cfg.Channels.WebForm.Enabled)
	return nil
}

func printChannelState(name string, enabled bool) {
	state := "(disabled)"
	if enabled {
		state = "✓"
	}
	fmt.Printf("  %-12s %s\n", name, state)
}
