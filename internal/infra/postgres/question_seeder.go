package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"

	"webinar-portal/internal/domain"
)

type questionPoolRow struct {
	bun.BaseModel `bun:"table:question_pools"`

	Topic     string          `bun:"topic,pk"`
	Data      json.RawMessage `bun:"data,type:jsonb"`
	UpdatedAt time.Time       `bun:"updated_at"`
}

// SeedQuestionPools upserts one row per topic. Every question set is checked
// before anything is written.
func SeedQuestionPools(ctx context.Context, db *bun.DB, pools map[string][]domain.Question) (int, error) {
	topics := make([]string, 0, len(pools))
	for topic := range pools {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	rows := make([]questionPoolRow, 0, len(topics))
	now := time.Now().UTC()
	for _, topic := range topics {
		for _, q := range pools[topic] {
			if !q.HasAnswer() {
				return 0, fmt.Errorf("topic %q question %d: %w", topic, q.ID, domain.ErrInvalidQuestion)
			}
		}
		data, err := json.Marshal(pools[topic])
		if err != nil {
			return 0, fmt.Errorf("marshal topic %q: %w", topic, err)
		}
		rows = append(rows, questionPoolRow{Topic: topic, Data: data, UpdatedAt: now})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (topic) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed question pools: %w", err)
	}
	return len(rows), nil
}
