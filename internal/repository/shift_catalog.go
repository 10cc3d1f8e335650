package repository

import (
	"context"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

func (r *Repository) GetCatalog() ([]domain.ShiftTypeDefinition, error) {
	query := `
		SELECT id, role, day_of_week, shift_type, start_time, end_time, created_at
		FROM shift_catalog
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	defs := make([]domain.ShiftTypeDefinition, 0)
	for rows.Next() {
		var def domain.ShiftTypeDefinition
		dst := []any{&def.ID, &def.Role, &def.DayOfWeek, &def.ShiftType, &def.StartTime, &def.EndTime, &def.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return defs, nil
}

// ReplaceCatalog swaps the whole catalog in one transaction. Definitions are
// small and edited as a complete table in the admin screen.
func (r *Repository) ReplaceCatalog(defs []domain.ShiftTypeDefinition) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM shift_catalog`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return err
	}

	for i := range defs {
		query := `
			INSERT INTO shift_catalog (role, day_of_week, shift_type, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`
		args := []any{defs[i].Role, defs[i].DayOfWeek, defs[i].ShiftType, defs[i].StartTime, defs[i].EndTime}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&defs[i].ID, &defs[i].CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}
