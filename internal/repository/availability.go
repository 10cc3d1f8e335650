package repository

import (
	"context"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

// ReplaceAvailabilityForDates rewrites one user's stored atoms for exactly
// the given dates. Dates missing from atomsByDate are cleared, dates not
// listed at all stay untouched, so a submission is a partial upsert.
func (r *Repository) ReplaceAvailabilityForDates(userID int64, dates []time.Time, atomsByDate map[string][]domain.ShiftType) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, date := range dates {
		query := `DELETE FROM availability_entries WHERE user_id = $1 AND work_date = $2`
		if _, err := tx.ExecContext(ctx, query, userID, date); err != nil {
			return err
		}

		for _, atom := range atomsByDate[date.Format("2006-01-02")] {
			query := `
				INSERT INTO availability_entries (user_id, work_date, shift_type)
				VALUES ($1, $2, $3)
			`
			if _, err := tx.ExecContext(ctx, query, userID, date, atom); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (r *Repository) getAvailability(where string, args ...any) ([]domain.AvailabilityEntry, error) {
	query := `
		SELECT id, user_id, work_date, shift_type, created_at
		FROM availability_entries
	` + where + `
		ORDER BY user_id, work_date, shift_type
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.AvailabilityEntry, 0)
	for rows.Next() {
		var entry domain.AvailabilityEntry
		dst := []any{&entry.ID, &entry.UserID, &entry.WorkDate, &entry.ShiftType, &entry.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repository) GetAvailabilityForUserWeek(userID int64, weekStart time.Time) ([]domain.AvailabilityEntry, error) {
	where := `WHERE user_id = $1 AND work_date >= $2 AND work_date < $3`
	return r.getAvailability(where, userID, weekStart, weekStart.AddDate(0, 0, 7))
}

func (r *Repository) GetAvailabilityForWeek(weekStart time.Time) ([]domain.AvailabilityEntry, error) {
	where := `WHERE work_date >= $1 AND work_date < $2`
	return r.getAvailability(where, weekStart, weekStart.AddDate(0, 0, 7))
}

// GetUserIDsWithAvailability lists users who stored at least one atom inside
// the week, for the reminder job to skip.
func (r *Repository) GetUserIDsWithAvailability(weekStart time.Time) (map[int64]bool, error) {
	query := `
		SELECT DISTINCT user_id
		FROM availability_entries
		WHERE work_date >= $1 AND work_date < $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
