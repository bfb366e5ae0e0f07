package todo

import (
	"context"
	"database/sql"
	"time"

	"cantinho/common/metrics"

	"github.com/uptrace/bun"
)

// Repository persists the whole reminder list at once.
type Repository interface {
	Load(ctx context.Context) ([]Reminder, error)
	Save(ctx context.Context, reminders []Reminder) error
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) Load(ctx context.Context) ([]Reminder, error) {
	start := time.Now()
	var reminders []Reminder
	err := r.db.NewSelect().
		Model(&reminders).
		Order("position ASC").
		Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", "reminders", time.Since(start), err)

	return reminders, err
}

// Save replaces the stored list with reminders, keeping their order.
func (r *repository) Save(ctx context.Context, reminders []Reminder) error {
	start := time.Now()
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*Reminder)(nil)).Where("TRUE").Exec(ctx); err != nil {
			return err
		}
		if len(reminders) == 0 {
			return nil
		}

		rows := make([]Reminder, len(reminders))
		for i, rem := range reminders {
			rem.Position = i
			rows[i] = rem
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	r.metrics.Database.RecordQuery(ctx, "replace", "reminders", time.Since(start), err)

	return err
}
