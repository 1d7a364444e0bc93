package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fieldlens/fieldlens/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration and toolkit directory",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		fmt.Scanln()
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	def := config.DefaultConfig()
	toolkitDir := def.CatalogDir()
	if err := os.MkdirAll(toolkitDir, 0o755); err != nil {
		return fmt.Errorf("create toolkit dir: %w", err)
	}
	fmt.Printf("✓ Toolkit dir at %s\n", toolkitDir)

	writeToolkitTemplate(toolkitDir)

	fmt.Printf("\n%s fieldlens is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Add your API key to %s\n", cfgPath)
	fmt.Println("     Get one at: https://openrouter.ai/keys")
	fmt.Printf("  2. Chat: fieldlens chat -m \"book an appointment tomorrow 3pm\"\n")
	return nil
}

// writeToolkitTemplate drops an example toolkit file so users have a working
// reference for the YAML format. Never overwrites.
func writeToolkitTemplate(dir string) {
	path := filepath.Join(dir, "example.yaml.txt")
	if _, err := os.Stat(path); err == nil {
		return
	}
	const tmpl = `# Rename to *.yaml to activate. Tools defined here shadow the builtin set.
toolkit: example
tools:
  - slug: EXAMPLE_CREATE_TASK
    name: Create Task
    description: Creates a task in the example tracker.
    parameters:
      - key: title
        title: Title
        description: Short task title
        required: true
      - key: due_date
        title: Due Date
        description: Due date in YYYY-MM-DDTHH:MM
      - key: priority
        title: Priority
        default: normal
`
	if err := os.WriteFile(path, []byte(tmpl), 0o644); err == nil {
		fmt.Printf("✓ Example toolkit at %s\n", path)
	}
}
