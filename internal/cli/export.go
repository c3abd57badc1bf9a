package cli

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"webinar-portal/internal/app"
	"webinar-portal/internal/config"
	"webinar-portal/internal/logging"
)

// NewExportCmd writes every participant in the configured store as CSV.
// Logs go to stderr so stdout carries only the CSV.
func NewExportCmd(configPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export participants as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log, err := logging.NewWithOutput(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer log.Sync()
			if cfg.Store.Driver == config.DriverMemory {
				log.Warn("store driver is memory; a fresh process has no participants to export")
			}

			b, err := openBackends(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer b.Close()

			records, err := b.participants.List(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				if out == "auto" {
					out = app.ExportFileName(time.Now())
				}
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := app.WriteParticipantsCSV(w, records); err != nil {
				return err
			}
			if out != "" {
				log.Info("participants exported", zap.String("file", out), zap.Int("rows", len(records)))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file ("auto" names it participants_data_<date>.csv; default stdout)`)
	return cmd
}
