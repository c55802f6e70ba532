package cli

import (
	"fmt"
	"os"
	"time"

	"dsa-mentor-service/internal/config"
	"dsa-mentor-service/internal/logger"
	"dsa-mentor-service/internal/report"
	"github.com/spf13/cobra"
)

// NewProgressCmd prints a learner's summary and optionally exports it as a spreadsheet.
func NewProgressCmd(configPath *string) *cobra.Command {
	var (
		learnerID string
		xlsxPath  string
	)
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show a learner's progress summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" && cfg.Redis.Addr == "" {
				return fmt.Errorf("progress is only persisted with postgres or redis configured")
			}
			if learnerID == "" {
				learnerID = cfg.Learner.DefaultID
			}
			log := logger.Setup(cfg.Log.Level, cfg.Log.Format)

			service, backends, err := newService(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer backends.Close()

			ctx := cmd.Context()
			history, err := service.History(ctx, learnerID)
			if err != nil {
				return err
			}
			summary, err := service.Summary(ctx, learnerID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "learner:     %s\n", learnerID)
			fmt.Fprintf(out, "completed:   %d/%d (%d%%)\n", summary.CompletedCount, summary.TotalTopics, summary.CompletionPercentage)
			fmt.Fprintf(out, "avg score:   %d\n", summary.AverageScore)
			for _, rec := range history {
				score := "-"
				if rec.Score != nil {
					score = fmt.Sprint(*rec.Score)
				}
				fmt.Fprintf(out, "  %s  %-40s %-12s %s\n", rec.RecordedAt.Local().Format(time.DateTime), rec.Topic, rec.Status, score)
			}

			if xlsxPath == "" {
				return nil
			}
			f, err := os.Create(xlsxPath)
			if err != nil {
				return err
			}
			if err := report.WriteXLSX(f, learnerID, summary, history); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote %s\n", xlsxPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&learnerID, "learner", "", "learner id (defaults to learner.default_id)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the report to this .xlsx file")
	return cmd
}
