package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

// Guard failures on exchange writes. CAS misses on request rows surface as
// sql.ErrNoRows; the service decides between not-found and already-resolved.
var (
	ErrAlreadyInExchange  = errors.New("schedule entry is already part of an exchange")
	ErrAlreadyVolunteered = errors.New("user already volunteered for this request")
)

func clearEntryExchangeByRequest(ctx context.Context, tx *sql.Tx, kind domain.ExchangeKind, requestID int64) error {
	query := `
		UPDATE schedule_entries
		SET exchange_kind = NULL,
			exchange_request_id = NULL,
			exchange_status = NULL,
			requester_name = NULL,
			relinquish_reason = NULL,
			version = version + 1
		WHERE exchange_kind = $1 AND exchange_request_id = $2
	`
	_, err := tx.ExecContext(ctx, query, kind, requestID)
	return err
}

func (r *Repository) CreateSwapRequest(req *domain.SwapRequest, requesterName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO swap_requests (schedule_entry_id, requester_id, suggested_coverer_id, status, work_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`
	req.Status = domain.SwapStatusPending
	args := []any{req.ScheduleEntryID, req.RequesterID, req.SuggestedCovererID, req.Status, req.WorkDate}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&req.ID, &req.CreatedAt, &req.Version); err != nil {
		return err
	}

	// Claiming the entry is the race gate: only one active exchange per entry.
	query = `
		UPDATE schedule_entries
		SET exchange_kind = $1,
			exchange_request_id = $2,
			exchange_status = $3,
			requester_name = $4,
			version = version + 1
		WHERE id = $5 AND exchange_kind IS NULL
	`
	res, err := tx.ExecContext(ctx, query, domain.ExchangeKindSwap, req.ID, req.Status, requesterName, req.ScheduleEntryID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyInExchange
	}

	return tx.Commit()
}

func (r *Repository) ApproveSwapRequest(requestID int64, entryID int64, covererID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE swap_requests
		SET status = $1, resolved_at = NOW(), version = version + 1
		WHERE id = $2 AND status = $3
		RETURNING version
	`
	var version int32
	if err := tx.QueryRowContext(ctx, query, domain.SwapStatusApproved, requestID, domain.SwapStatusPending).Scan(&version); err != nil {
		return err
	}

	query = `
		UPDATE schedule_entries
		SET user_id = $1,
			exchange_kind = NULL,
			exchange_request_id = NULL,
			exchange_status = NULL,
			requester_name = NULL,
			relinquish_reason = NULL,
			version = version + 1
		WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, query, covererID, entryID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) DenySwapRequest(requestID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE swap_requests
		SET status = $1, resolved_at = NOW(), version = version + 1
		WHERE id = $2 AND status = $3
		RETURNING version
	`
	var version int32
	if err := tx.QueryRowContext(ctx, query, domain.SwapStatusDenied, requestID, domain.SwapStatusPending).Scan(&version); err != nil {
		return err
	}

	if err := clearEntryExchangeByRequest(ctx, tx, domain.ExchangeKindSwap, requestID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetSwapRequestByID(id int64) (*domain.SwapRequest, error) {
	query := `
		SELECT schedule_entry_id, requester_id, suggested_coverer_id, status, work_date, created_at, resolved_at, version
		FROM swap_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	req := &domain.SwapRequest{
		ID: id,
	}

	dst := []any{&req.ScheduleEntryID, &req.RequesterID, &req.SuggestedCovererID, &req.Status, &req.WorkDate, &req.CreatedAt, &req.ResolvedAt, &req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *Repository) getSwapRequests(where string, args ...any) ([]*domain.SwapRequest, error) {
	query := `
		SELECT id, schedule_entry_id, requester_id, suggested_coverer_id, status, work_date, created_at, resolved_at, version
		FROM swap_requests
	` + where + `
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]*domain.SwapRequest, 0)
	for rows.Next() {
		var req domain.SwapRequest
		dst := []any{&req.ID, &req.ScheduleEntryID, &req.RequesterID, &req.SuggestedCovererID, &req.Status, &req.WorkDate, &req.CreatedAt, &req.ResolvedAt, &req.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		reqs = append(reqs, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reqs, nil
}

func (r *Repository) GetSwapRequestsForWeek(weekStart time.Time) ([]*domain.SwapRequest, error) {
	where := `WHERE work_date >= $1 AND work_date < $2`
	return r.getSwapRequests(where, weekStart, weekStart.AddDate(0, 0, 7))
}

func (r *Repository) GetExpiredSwapRequests(today time.Time) ([]*domain.SwapRequest, error) {
	where := `WHERE status = $1 AND work_date < $2`
	return r.getSwapRequests(where, domain.SwapStatusPending, today)
}

func (r *Repository) ExpireSwapRequest(requestID int64) error {
	return r.DenySwapRequest(requestID)
}

func (r *Repository) CreateVolunteerRequest(req *domain.VolunteerRequest, requesterName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO volunteer_requests (schedule_entry_id, requester_id, reason, status, work_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`
	req.Status = domain.VolunteerStatusOpen
	args := []any{req.ScheduleEntryID, req.RequesterID, req.Reason, req.Status, req.WorkDate}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&req.ID, &req.CreatedAt, &req.Version); err != nil {
		return err
	}

	query = `
		UPDATE schedule_entries
		SET exchange_kind = $1,
			exchange_request_id = $2,
			exchange_status = $3,
			requester_name = $4,
			relinquish_reason = $5,
			version = version + 1
		WHERE id = $6 AND exchange_kind IS NULL
	`
	res, err := tx.ExecContext(ctx, query, domain.ExchangeKindVolunteer, req.ID, req.Status, requesterName, req.Reason, req.ScheduleEntryID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyInExchange
	}

	return tx.Commit()
}

// AddVolunteer lists userID on an open or pending request. The first
// volunteer moves the request out of Open; later ones only join the list.
func (r *Repository) AddVolunteer(requestID int64, userID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE volunteer_requests
		SET status = $1, version = version + 1
		WHERE id = $2 AND status IN ($3, $4)
		RETURNING version
	`
	var version int32
	args := []any{domain.VolunteerStatusPendingApproval, requestID, domain.VolunteerStatusOpen, domain.VolunteerStatusPendingApproval}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&version); err != nil {
		return err
	}

	query = `
		INSERT INTO volunteer_request_volunteers (request_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (request_id, user_id) DO NOTHING
	`
	res, err := tx.ExecContext(ctx, query, requestID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyVolunteered
	}

	query = `
		UPDATE schedule_entries
		SET exchange_status = $1, version = version + 1
		WHERE exchange_kind = $2 AND exchange_request_id = $3
	`
	if _, err := tx.ExecContext(ctx, query, domain.VolunteerStatusPendingApproval, domain.ExchangeKindVolunteer, requestID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) ApproveVolunteerRequest(requestID int64, entryID int64, volunteerID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE volunteer_requests
		SET status = $1, resolved_at = NOW(), version = version + 1
		WHERE id = $2 AND status = $3
		RETURNING version
	`
	var version int32
	if err := tx.QueryRowContext(ctx, query, domain.VolunteerStatusApproved, requestID, domain.VolunteerStatusPendingApproval).Scan(&version); err != nil {
		return err
	}

	query = `
		UPDATE schedule_entries
		SET user_id = $1,
			exchange_kind = NULL,
			exchange_request_id = NULL,
			exchange_status = NULL,
			requester_name = NULL,
			relinquish_reason = NULL,
			version = version + 1
		WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, query, volunteerID, entryID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) CancelVolunteerRequest(requestID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE volunteer_requests
		SET status = $1, resolved_at = NOW(), version = version + 1
		WHERE id = $2 AND status = $3
		RETURNING version
	`
	var version int32
	if err := tx.QueryRowContext(ctx, query, domain.VolunteerStatusCancelled, requestID, domain.VolunteerStatusOpen).Scan(&version); err != nil {
		return err
	}

	if err := clearEntryExchangeByRequest(ctx, tx, domain.ExchangeKindVolunteer, requestID); err != nil {
		return err
	}

	return tx.Commit()
}

// ExpireVolunteerRequest cancels an open or pending request whose shift date
// has passed. Unlike a requester cancel it may fire from PendingApproval.
func (r *Repository) ExpireVolunteerRequest(requestID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE volunteer_requests
		SET status = $1, resolved_at = NOW(), version = version + 1
		WHERE id = $2 AND status IN ($3, $4)
		RETURNING version
	`
	var version int32
	args := []any{domain.VolunteerStatusCancelled, requestID, domain.VolunteerStatusOpen, domain.VolunteerStatusPendingApproval}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&version); err != nil {
		return err
	}

	if err := clearEntryExchangeByRequest(ctx, tx, domain.ExchangeKindVolunteer, requestID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) loadVolunteers(ctx context.Context, req *domain.VolunteerRequest) error {
	query := `
		SELECT v.user_id, u.full_name, v.volunteered_at
		FROM volunteer_request_volunteers v
		JOIN users u ON u.id = v.user_id
		WHERE v.request_id = $1
		ORDER BY v.volunteered_at
	`

	rows, err := r.dbpool.QueryContext(ctx, query, req.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	req.Volunteers = make([]domain.RequestVolunteer, 0)
	for rows.Next() {
		var v domain.RequestVolunteer
		if err := rows.Scan(&v.UserID, &v.FullName, &v.VolunteeredAt); err != nil {
			return err
		}
		req.Volunteers = append(req.Volunteers, v)
	}

	return rows.Err()
}

func (r *Repository) GetVolunteerRequestByID(id int64) (*domain.VolunteerRequest, error) {
	query := `
		SELECT schedule_entry_id, requester_id, reason, status, work_date, created_at, resolved_at, version
		FROM volunteer_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	req := &domain.VolunteerRequest{
		ID: id,
	}

	dst := []any{&req.ScheduleEntryID, &req.RequesterID, &req.Reason, &req.Status, &req.WorkDate, &req.CreatedAt, &req.ResolvedAt, &req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := r.loadVolunteers(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *Repository) getVolunteerRequests(where string, args ...any) ([]*domain.VolunteerRequest, error) {
	query := `
		SELECT
			vr.id,
			vr.schedule_entry_id,
			vr.requester_id,
			vr.reason,
			vr.status,
			vr.work_date,
			vr.created_at,
			vr.resolved_at,
			vr.version,
			v.user_id,
			u.full_name,
			v.volunteered_at
		FROM volunteer_requests vr
		LEFT JOIN volunteer_request_volunteers v ON vr.id = v.request_id
		LEFT JOIN users u ON u.id = v.user_id
	` + where + `
		ORDER BY vr.created_at DESC, v.volunteered_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]*domain.VolunteerRequest, 0)
	reqsMap := make(map[int64]*domain.VolunteerRequest)

	for rows.Next() {
		var row struct {
			req           domain.VolunteerRequest
			volunteerID   sql.NullInt64
			fullName      sql.NullString
			volunteeredAt sql.NullTime
		}

		dst := []any{
			&row.req.ID,
			&row.req.ScheduleEntryID,
			&row.req.RequesterID,
			&row.req.Reason,
			&row.req.Status,
			&row.req.WorkDate,
			&row.req.CreatedAt,
			&row.req.ResolvedAt,
			&row.req.Version,
			&row.volunteerID,
			&row.fullName,
			&row.volunteeredAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		req, exists := reqsMap[row.req.ID]
		if !exists {
			req = &row.req
			req.Volunteers = make([]domain.RequestVolunteer, 0)
			reqsMap[req.ID] = req
			reqs = append(reqs, req)
		}
		if row.volunteerID.Valid {
			req.Volunteers = append(req.Volunteers, domain.RequestVolunteer{
				UserID:        row.volunteerID.Int64,
				FullName:      row.fullName.String,
				VolunteeredAt: row.volunteeredAt.Time,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reqs, nil
}

func (r *Repository) GetVolunteerRequestsForWeek(weekStart time.Time) ([]*domain.VolunteerRequest, error) {
	where := `WHERE vr.work_date >= $1 AND vr.work_date < $2`
	return r.getVolunteerRequests(where, weekStart, weekStart.AddDate(0, 0, 7))
}

func (r *Repository) GetExpiredVolunteerRequests(today time.Time) ([]*domain.VolunteerRequest, error) {
	where := `WHERE vr.status IN ($1, $2) AND vr.work_date < $3`
	return r.getVolunteerRequests(where, domain.VolunteerStatusOpen, domain.VolunteerStatusPendingApproval, today)
}
