package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldlens/fieldlens/internal/audit"
	"github.com/fieldlens/fieldlens/internal/config"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect recorded contracts",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded contracts",
	RunE:  runAuditList,
}

var auditSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete records past the retention window",
	RunE:  runAuditSweep,
}

func init() {
	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditSweepCmd)
}

func runAuditList(_ *cobra.Command, _ []string) error {
	store, err := openAuditStore()
	if err != nil {
		return err
	}
	records, err := store.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No records.")
		return nil
	}
	for _, rec := range records {
		asks := 0
		if rec.Contract != nil {
			asks = len(rec.Contract.DynamicFields())
		}
		fmt.Printf("%s  %-40s asks=%d  %q\n", rec.Timestamp, rec.ToolID, asks, rec.UserQuery)
	}
	return nil
}

func runAuditSweep(_ *cobra.Command, _ []string) error {
	store, err := openAuditStore()
	if err != nil {
		return err
	}
	n, err := store.Sweep()
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d record(s).\n", n)
	return nil
}

func openAuditStore() (*audit.Store, error) {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return audit.NewStore(cfg.AuditDir(), cfg.Audit.RetentionDays), nil
}
