package repository

import (
	"context"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

func (r *Repository) UpsertStaffingRequirement(req *domain.StaffingRequirement) error {
	query := `
		INSERT INTO staffing_requirements (scope, work_date, min_staff, max_staff)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scope, work_date) DO UPDATE
		SET min_staff = EXCLUDED.min_staff,
			max_staff = EXCLUDED.max_staff,
			version = staffing_requirements.version + 1
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{req.Scope, req.WorkDate, req.MinStaff, req.MaxStaff}
	dst := []any{&req.ID, &req.CreatedAt, &req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) getStaffingRequirements(where string, args ...any) ([]*domain.StaffingRequirement, error) {
	query := `
		SELECT id, scope, work_date, min_staff, max_staff, created_at, version
		FROM staffing_requirements
	` + where + `
		ORDER BY work_date, scope
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]*domain.StaffingRequirement, 0)
	for rows.Next() {
		var req domain.StaffingRequirement
		dst := []any{&req.ID, &req.Scope, &req.WorkDate, &req.MinStaff, &req.MaxStaff, &req.CreatedAt, &req.Version}
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

func (r *Repository) GetStaffingRequirementsForWeek(weekStart time.Time) ([]*domain.StaffingRequirement, error) {
	where := `WHERE work_date >= $1 AND work_date < $2`
	return r.getStaffingRequirements(where, weekStart, weekStart.AddDate(0, 0, 7))
}

func (r *Repository) GetStaffingRequirementsForScopeWeek(scope domain.Role, weekStart time.Time) ([]*domain.StaffingRequirement, error) {
	where := `WHERE scope = $1 AND work_date >= $2 AND work_date < $3`
	return r.getStaffingRequirements(where, scope, weekStart, weekStart.AddDate(0, 0, 7))
}
