package webhook

import (
	"context"
	"errors"
	"fmt"

	"delivery-quotation/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code raised when an audit entry for
// the same (order, type, timestamp) already exists.
const uniqueViolation = "23505"

// Repository implements RepositoryInterface against Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new webhook repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// RecordEvent writes the audit entry and the order update in one
// transaction, so an audit row only exists once the status it carries has
// been applied. A failed update rolls the audit insert back, which keeps the
// provider's retry of the same event effective.
//
// A unique-violation on the audit insert means the event was already fully
// recorded; the call reports a replay and writes nothing.
//
// The CASE guard serializes concurrent deliveries per order: only an event
// newer than the last applied one may change the status, so out-of-order
// deliveries cannot regress it. The note is always appended to
// internal_notes to keep the trail.
func (r *Repository) RecordEvent(ctx context.Context, entry models.DeliveryEvent, driver *models.DriverDetails, note string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("repository.RecordEvent: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertQuery := `
		INSERT INTO delivery_events (provider_order_id, event_type, provider_status, mapped_status, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = tx.Exec(ctx, insertQuery,
		entry.ProviderOrderID, entry.EventType, entry.ProviderStatus, string(entry.MappedStatus), entry.OccurredAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("repository.RecordEvent: insert event: %w", err)
	}

	var driverName, driverPhone, driverPlate *string
	if driver != nil {
		driverName = &driver.Name
		driverPhone = &driver.Phone
		driverPlate = &driver.PlateNumber
	}

	updateQuery := `
		UPDATE orders
		SET delivery_status = CASE
				WHEN last_event_at IS NULL OR last_event_at < $2 THEN $3
				ELSE delivery_status
			END,
		    last_event_at = GREATEST(COALESCE(last_event_at, $2), $2),
		    driver_name = COALESCE($4, driver_name),
		    driver_phone = COALESCE($5, driver_phone),
		    driver_plate_number = COALESCE($6, driver_plate_number),
		    internal_notes = COALESCE(internal_notes, '') || $7,
		    updated_at = NOW()
		WHERE provider_order_id = $1`

	cmdTag, err := tx.Exec(ctx, updateQuery,
		entry.ProviderOrderID, entry.OccurredAt, string(entry.MappedStatus), driverName, driverPhone, driverPlate, note)
	if err != nil {
		return false, fmt.Errorf("repository.RecordEvent: update order: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return false, models.ErrOrderNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("repository.RecordEvent: commit tx: %w", err)
	}
	return true, nil
}
