package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldlens/fieldlens/internal/catalog"
	"github.com/fieldlens/fieldlens/internal/config"
)

var toolsCmd = &cobra.Command{
	Use:   "tools [SLUG]",
	Short: "List known tools or show one tool's parameters",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	files := catalog.NewFileCatalog(cfg.CatalogDir())
	builtin := catalog.Builtin{}

	if len(args) == 1 {
		chain := catalog.Chain{files, builtin}
		ts, err := chain.GetToolSchema(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("lookup %s: %w", args[0], err)
		}
		fmt.Printf("%s — %s\n%s\n\n", ts.Slug, ts.Name, ts.Description)
		for _, p := range ts.Parameters {
			mark := " "
			if p.Required {
				mark = "*"
			}
			line := fmt.Sprintf("  %s %-20s %s", mark, p.Key, p.Description)
			if p.Default != "" {
				line += fmt.Sprintf(" (default: %s)", p.Default)
			}
			fmt.Println(line)
		}
		fmt.Println("\n* required")
		return nil
	}

	if slugs := files.Slugs(); len(slugs) > 0 {
		fmt.Printf("Toolkit files (%s):\n", cfg.CatalogDir())
		printSlugs(slugs)
		fmt.Println()
	}
	fmt.Println("Builtin:")
	printSlugs(builtin.Slugs())
	return nil
}

func printSlugs(slugs []string) {
	for _, s := range slugs {
		fmt.Printf("  %s\n", s)
	}
}
