package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CleanupResult contains statistics about a cleanup run.
type CleanupResult struct {
	TopStylesDeleted    int64
	CustomStylesDeleted int64
	TotalDeleted        int64
	Duration            time.Duration
}

// Cleanup deletes favourites and customizations not updated for more than
// retentionDays days. Zero deletes everything older than now.
//
// Example:
//
//	result, err := database.Cleanup(ctx, 180)
func (d *Database) Cleanup(ctx context.Context, retentionDays int) (CleanupResult, error) {
	start := time.Now()
	var result CleanupResult

	if retentionDays < 0 {
		return result, fmt.Errorf("retentionDays must be non-negative, got %d", retentionDays)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	counts := make(map[string]int64, len(profileTables))
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range profileTables {
			query := fmt.Sprintf(
				"DELETE FROM %s WHERE updated_at < datetime('now', '-%d days')",
				table, retentionDays)
			res, err := tx.ExecContext(ctx, query)
			if err != nil {
				return fmt.Errorf("failed to delete from %s: %w", table, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected for %s: %w", table, err)
			}
			counts[table] = n
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	result.TopStylesDeleted = counts["top_styles"]
	result.CustomStylesDeleted = counts["custom_styles"]
	result.TotalDeleted = result.TopStylesDeleted + result.CustomStylesDeleted
	result.Duration = time.Since(start)
	return result, nil
}

// CleanupSchedulerConfig holds configuration for the cleanup scheduler.
type CleanupSchedulerConfig struct {
	// RetentionDays is the number of days an untouched profile is kept
	RetentionDays int
	// Interval is how often to run cleanup
	Interval time.Duration
	// OnCleanup is called after each run (optional)
	OnCleanup func(result CleanupResult, err error)
}

// DefaultCleanupSchedulerConfig returns a daily run keeping 180 days.
func DefaultCleanupSchedulerConfig() CleanupSchedulerConfig {
	return CleanupSchedulerConfig{
		RetentionDays: 180,
		Interval:      24 * time.Hour,
	}
}

// StartCleanupScheduler runs Cleanup immediately and then every
// config.Interval until ctx is cancelled.
func (d *Database) StartCleanupScheduler(ctx context.Context, config CleanupSchedulerConfig) {
	run := func() {
		result, err := d.Cleanup(ctx, config.RetentionDays)
		if config.OnCleanup != nil {
			config.OnCleanup(result, err)
		}
	}

	go func() {
		run()

		ticker := time.NewTicker(config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
