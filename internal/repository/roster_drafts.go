package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

func (r *Repository) GetDraft(role domain.Role, weekStart time.Time) (*domain.RosterDraft, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, status, created_at, updated_at, version
		FROM roster_drafts
		WHERE schedule_role = $1 AND week_start = $2
	`

	draft := &domain.RosterDraft{
		ScheduleRole: role,
		WeekStart:    weekStart,
	}

	dst := []any{&draft.ID, &draft.Status, &draft.CreatedAt, &draft.UpdatedAt, &draft.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, role, weekStart).Scan(dst...); err != nil {
		return nil, err
	}

	query = `
		SELECT id, user_id, work_date, shift_type, custom_start_time, custom_end_time
		FROM roster_draft_cells
		WHERE draft_id = $1
		ORDER BY work_date, user_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, draft.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	draft.Cells = make([]domain.RosterDraftCell, 0)
	for rows.Next() {
		var cell domain.RosterDraftCell
		dst := []any{&cell.ID, &cell.UserID, &cell.WorkDate, &cell.ShiftType, &cell.CustomStartTime, &cell.CustomEndTime}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		draft.Cells = append(draft.Cells, cell)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return draft, nil
}

func (r *Repository) CreateDraft(draft *domain.RosterDraft) error {
	query := `
		INSERT INTO roster_drafts (schedule_role, week_start, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	draft.Status = domain.DraftStatusDrafting
	args := []any{draft.ScheduleRole, draft.WeekStart, draft.Status}
	dst := []any{&draft.ID, &draft.CreatedAt, &draft.UpdatedAt, &draft.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// bumpDraft is the optimistic guard every draft mutation passes through. A
// stale version scans no row and surfaces sql.ErrNoRows.
func bumpDraft(ctx context.Context, tx *sql.Tx, draftID int64, version int32, status domain.DraftStatus) (int32, error) {
	query := `
		UPDATE roster_drafts
		SET status = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	var newVersion int32
	if err := tx.QueryRowContext(ctx, query, status, draftID, version).Scan(&newVersion); err != nil {
		return 0, err
	}
	return newVersion, nil
}

func (r *Repository) UpsertDraftCell(draftID int64, version int32, cell *domain.RosterDraftCell) (int32, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	newVersion, err := bumpDraft(ctx, tx, draftID, version, domain.DraftStatusDrafting)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO roster_draft_cells (draft_id, user_id, work_date, shift_type, custom_start_time, custom_end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (draft_id, user_id, work_date) DO UPDATE
		SET shift_type = EXCLUDED.shift_type,
			custom_start_time = EXCLUDED.custom_start_time,
			custom_end_time = EXCLUDED.custom_end_time
		RETURNING id
	`
	args := []any{draftID, cell.UserID, cell.WorkDate, cell.ShiftType, cell.CustomStartTime, cell.CustomEndTime}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&cell.ID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return newVersion, nil
}

func (r *Repository) DeleteDraftCell(draftID int64, version int32, userID int64, workDate time.Time) (int32, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	newVersion, err := bumpDraft(ctx, tx, draftID, version, domain.DraftStatusDrafting)
	if err != nil {
		return 0, err
	}

	query := `
		DELETE FROM roster_draft_cells
		WHERE draft_id = $1 AND user_id = $2 AND work_date = $3
	`
	if _, err := tx.ExecContext(ctx, query, draftID, userID, workDate); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return newVersion, nil
}

func (r *Repository) MarkDraftSaved(draftID int64, version int32) (int32, error) {
	query := `
		UPDATE roster_drafts
		SET status = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var newVersion int32
	if err := r.dbpool.QueryRowContext(ctx, query, domain.DraftStatusSaved, draftID, version).Scan(&newVersion); err != nil {
		return 0, err
	}

	return newVersion, nil
}

type publishedEntryKey struct {
	UserID  int64
	DateKey string
}

func entriesEqual(existing *domain.ScheduleEntry, cell *domain.RosterDraftCell) bool {
	if existing.ShiftType != cell.ShiftType || existing.OnLeave {
		return false
	}
	strEq := func(a, b *string) bool {
		if (a == nil) != (b == nil) {
			return false
		}
		return a == nil || *a == *b
	}
	return strEq(existing.CustomStartTime, cell.CustomStartTime) && strEq(existing.CustomEndTime, cell.CustomEndTime)
}

// resolveDanglingRequests terminates active exchange requests whose entry is
// about to be overwritten or removed by a republish.
func resolveDanglingRequests(ctx context.Context, tx *sql.Tx, entryID int64) error {
	query := `
		UPDATE swap_requests
		SET status = $1, resolved_at = NOW(), version = version + 1
		WHERE schedule_entry_id = $2 AND status = $3
	`
	if _, err := tx.ExecContext(ctx, query, domain.SwapStatusDenied, entryID, domain.SwapStatusPending); err != nil {
		return err
	}

	query = `
		UPDATE volunteer_requests
		SET status = $1, resolved_at = NOW(), version = version + 1
		WHERE schedule_entry_id = $2 AND status IN ($3, $4)
	`
	if _, err := tx.ExecContext(ctx, query, domain.VolunteerStatusCancelled, entryID, domain.VolunteerStatusOpen, domain.VolunteerStatusPendingApproval); err != nil {
		return err
	}

	return nil
}

// PublishDraft materializes the draft grid as schedule entries in one
// transaction. Entries matching an unchanged cell keep their id and exchange
// state; changed cells are overwritten with exchange state reset; published
// entries absent from the grid are removed, except leave rows, which only the
// leave ledger owns. Publishing an unchanged grid twice writes nothing.
func (r *Repository) PublishDraft(draft *domain.RosterDraft) (int32, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	newVersion, err := bumpDraft(ctx, tx, draft.ID, draft.Version, domain.DraftStatusPublished)
	if err != nil {
		return 0, err
	}

	weekEnd := draft.WeekStart.AddDate(0, 0, 7)
	query := `
		SELECT id, user_id, work_date, shift_type, custom_start_time, custom_end_time, on_leave
		FROM schedule_entries
		WHERE schedule_role = $1 AND work_date >= $2 AND work_date < $3
	`
	rows, err := tx.QueryContext(ctx, query, draft.ScheduleRole, draft.WeekStart, weekEnd)
	if err != nil {
		return 0, err
	}

	existing := make(map[publishedEntryKey]*domain.ScheduleEntry)
	for rows.Next() {
		entry := &domain.ScheduleEntry{ScheduleRole: draft.ScheduleRole}
		dst := []any{&entry.ID, &entry.UserID, &entry.WorkDate, &entry.ShiftType, &entry.CustomStartTime, &entry.CustomEndTime, &entry.OnLeave}
		if err := rows.Scan(dst...); err != nil {
			rows.Close()
			return 0, err
		}
		existing[publishedEntryKey{UserID: entry.UserID, DateKey: entry.WorkDate.Format("2006-01-02")}] = entry
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	desired := make(map[publishedEntryKey]*domain.RosterDraftCell, len(draft.Cells))
	for i := range draft.Cells {
		cell := &draft.Cells[i]
		desired[publishedEntryKey{UserID: cell.UserID, DateKey: cell.WorkDate.Format("2006-01-02")}] = cell
	}

	for key, cell := range desired {
		entry, exists := existing[key]
		if exists && entriesEqual(entry, cell) {
			continue
		}

		if exists {
			if err := resolveDanglingRequests(ctx, tx, entry.ID); err != nil {
				return 0, err
			}
			query := `
				UPDATE schedule_entries
				SET shift_type = $1,
					custom_start_time = $2,
					custom_end_time = $3,
					exchange_kind = NULL,
					exchange_request_id = NULL,
					exchange_status = NULL,
					requester_name = NULL,
					relinquish_reason = NULL,
					on_leave = FALSE,
					version = version + 1
				WHERE id = $4
			`
			args := []any{cell.ShiftType, cell.CustomStartTime, cell.CustomEndTime, entry.ID}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return 0, err
			}
			continue
		}

		query := `
			INSERT INTO schedule_entries (schedule_role, user_id, work_date, shift_type, custom_start_time, custom_end_time)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		args := []any{draft.ScheduleRole, cell.UserID, cell.WorkDate, cell.ShiftType, cell.CustomStartTime, cell.CustomEndTime}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, err
		}
	}

	for key, entry := range existing {
		if _, keep := desired[key]; keep || entry.OnLeave {
			continue
		}
		if err := resolveDanglingRequests(ctx, tx, entry.ID); err != nil {
			return 0, err
		}
		query := `DELETE FROM schedule_entries WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, entry.ID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return newVersion, nil
}
