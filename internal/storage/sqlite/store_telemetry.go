package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lfernandes/caixa/internal/storage"
)

// AppendTelemetryEvent records one operational event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	name := strings.TrimSpace(evt.Name)
	if name == "" {
		return fmt.Errorf("telemetry event name is required")
	}
	timestamp := evt.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO telemetry_events (timestamp, severity, name, detail)
		 VALUES (?, ?, ?, ?)`,
		formatTimestamp(timestamp),
		evt.Severity,
		name,
		evt.Detail,
	)
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}
