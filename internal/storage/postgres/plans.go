package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/autoplan/internal/models"
	"github.com/julianstephens/autoplan/internal/storage"
)

// SavePlan stores a plan revision. A zero revision overwrites the latest
// revision unless it was accepted, in which case a new revision is created.
func (s *Store) SavePlan(plan models.DayPlan) error {
	if plan.DeletedAt != nil {
		return fmt.Errorf("cannot save a plan with deleted_at set")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var latest int
	var acceptedAt sql.NullTime
	err = tx.QueryRow(
		"SELECT revision, accepted_at FROM plans WHERE date = $1 AND deleted_at IS NULL ORDER BY revision DESC LIMIT 1 FOR UPDATE",
		plan.Date,
	).Scan(&latest, &acceptedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if plan.Revision == 0 {
			plan.Revision = 1
		}
	case err != nil:
		return fmt.Errorf("failed to check existing plan: %w", err)
	case plan.Revision == 0 && acceptedAt.Valid:
		plan.Revision = latest + 1
	case plan.Revision == 0:
		plan.Revision = latest
	case plan.Revision == latest && acceptedAt.Valid:
		return fmt.Errorf("cannot overwrite accepted plan: %s revision %d", plan.Date, plan.Revision)
	}

	if _, err := tx.Exec("DELETE FROM plans WHERE date = $1 AND revision = $2", plan.Date, plan.Revision); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO plans (date, revision, accepted_at, deleted_at) VALUES ($1, $2, $3, NULL)",
		plan.Date, plan.Revision, storage.NullString(plan.AcceptedAt),
	); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO slots (plan_date, plan_revision, start_time, end_time, task_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, slot := range plan.Slots {
		if _, err := stmt.Exec(plan.Date, plan.Revision, slot.Start, slot.End, slot.TaskID, string(slot.Status)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetPlan returns the latest revision for date.
func (s *Store) GetPlan(date string) (models.DayPlan, error) {
	plan := models.DayPlan{Date: date}
	var acceptedAt sql.NullTime
	err := s.db.QueryRow(
		"SELECT revision, accepted_at FROM plans WHERE date = $1 AND deleted_at IS NULL ORDER BY revision DESC LIMIT 1",
		date,
	).Scan(&plan.Revision, &acceptedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DayPlan{}, fmt.Errorf("plan for %s: %w", date, storage.ErrNotFound)
	}
	if err != nil {
		return models.DayPlan{}, err
	}
	if acceptedAt.Valid {
		ts := acceptedAt.Time.UTC().Format(time.RFC3339)
		plan.AcceptedAt = &ts
	}

	rows, err := s.db.Query(
		"SELECT start_time, end_time, task_id, status FROM slots WHERE plan_date = $1 AND plan_revision = $2 ORDER BY start_time, id",
		date, plan.Revision,
	)
	if err != nil {
		return models.DayPlan{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var slot models.Slot
		var status string
		if err := rows.Scan(&slot.Start, &slot.End, &slot.TaskID, &status); err != nil {
			return models.DayPlan{}, err
		}
		slot.Status = models.SlotStatus(status)
		plan.Slots = append(plan.Slots, slot)
	}
	return plan, rows.Err()
}
