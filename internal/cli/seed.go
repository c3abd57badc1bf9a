package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"webinar-portal/internal/domain"
	"webinar-portal/internal/infra/memory"
	pgstore "webinar-portal/internal/infra/postgres"
	"webinar-portal/internal/logging"
)

// NewSeedQuestionsCmd loads question pools into Postgres.
func NewSeedQuestionsCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-questions",
		Short: "Upsert question pools into Postgres",
		Long: "Upserts the built-in question bank, or the pools in --file " +
			`(a JSON object mapping topic to [{"id","question","options","answer"}]).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			pools := memory.DefaultQuestionPools()
			if file != "" {
				if pools, err = readQuestionPools(file); err != nil {
					return err
				}
			}

			db, err := openBunDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := migrateDB(cmd.Context(), db, log); err != nil {
				return err
			}
			n, err := pgstore.SeedQuestionPools(cmd.Context(), db, pools)
			if err != nil {
				return err
			}
			log.Info("question pools seeded", zap.Int("topics", n))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON file with question pools keyed by topic")
	return cmd
}

func readQuestionPools(path string) (map[string][]domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pools map[string][]domain.Question
	if err := json.Unmarshal(data, &pools); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return pools, nil
}
