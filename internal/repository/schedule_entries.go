package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

const entryColumns = `
	id, schedule_role, user_id, work_date, shift_type,
	custom_start_time, custom_end_time,
	exchange_kind, exchange_request_id, exchange_status,
	requester_name, relinquish_reason,
	on_leave, created_at, version
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.ScheduleEntry, error) {
	entry := &domain.ScheduleEntry{}
	var (
		kind          sql.NullString
		requestID     sql.NullInt64
		status        sql.NullString
		requesterName sql.NullString
		reason        sql.NullString
	)

	dst := []any{
		&entry.ID, &entry.ScheduleRole, &entry.UserID, &entry.WorkDate, &entry.ShiftType,
		&entry.CustomStartTime, &entry.CustomEndTime,
		&kind, &requestID, &status,
		&requesterName, &reason,
		&entry.OnLeave, &entry.CreatedAt, &entry.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if kind.Valid {
		state := &domain.ExchangeState{
			Kind:          domain.ExchangeKind(kind.String),
			RequestID:     requestID.Int64,
			RequesterName: requesterName.String,
		}
		if reason.Valid {
			state.Reason = &reason.String
		}
		switch state.Kind {
		case domain.ExchangeKindSwap:
			s := domain.SwapStatus(status.String)
			state.SwapStatus = &s
		case domain.ExchangeKindVolunteer:
			s := domain.VolunteerStatus(status.String)
			state.VolunteerStatus = &s
		}
		entry.Exchange = state
	}

	return entry, nil
}

func (r *Repository) GetScheduleEntryByID(id int64) (*domain.ScheduleEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanEntry(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) getEntries(where string, args ...any) ([]*domain.ScheduleEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries ` + where + ` ORDER BY work_date, schedule_role, user_id`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.ScheduleEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repository) GetEntriesForWeek(weekStart time.Time) ([]*domain.ScheduleEntry, error) {
	where := `WHERE work_date >= $1 AND work_date < $2`
	return r.getEntries(where, weekStart, weekStart.AddDate(0, 0, 7))
}

func (r *Repository) GetEntriesForRoleWeek(role domain.Role, weekStart time.Time) ([]*domain.ScheduleEntry, error) {
	where := `WHERE schedule_role = $1 AND work_date >= $2 AND work_date < $3`
	return r.getEntries(where, role, weekStart, weekStart.AddDate(0, 0, 7))
}

func (r *Repository) GetEntriesForUserWeek(userID int64, weekStart time.Time) ([]*domain.ScheduleEntry, error) {
	where := `WHERE user_id = $1 AND work_date >= $2 AND work_date < $3`
	return r.getEntries(where, userID, weekStart, weekStart.AddDate(0, 0, 7))
}

func (r *Repository) GetEntriesForDate(date time.Time) ([]*domain.ScheduleEntry, error) {
	where := `WHERE work_date = $1`
	return r.getEntries(where, date)
}

// InsertLeaveEntry records an approved leave day. Leave rows come from the
// HR side, never from publishing, and block the date in eligibility checks.
func (r *Repository) InsertLeaveEntry(entry *domain.ScheduleEntry) error {
	query := `
		INSERT INTO schedule_entries (schedule_role, user_id, work_date, shift_type, on_leave)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	entry.OnLeave = true
	args := []any{entry.ScheduleRole, entry.UserID, entry.WorkDate, entry.ShiftType}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt, &entry.Version); err != nil {
		return err
	}

	return nil
}
