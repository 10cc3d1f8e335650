package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

func (r *Repository) loadUserRoles(ctx context.Context, user *domain.User) error {
	query := `
		SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role
	`

	rows, err := r.dbpool.QueryContext(ctx, query, user.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	user.Roles = make([]domain.Role, 0, 2)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role); err != nil {
			return err
		}
		user.Roles = append(user.Roles, role)
	}

	return rows.Err()
}

func (r *Repository) GetUserByID(id int64) (*domain.User, error) {
	query := `
		SELECT username, password_hash, full_name, email, is_active, created_at, version
		FROM users WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{
		ID: id,
	}

	dst := []any{&user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.IsActive, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := r.loadUserRoles(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByUsername(username string) (*domain.User, error) {
	query := `
		SELECT id, password_hash, full_name, email, is_active, created_at, version
		FROM users WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{
		Username: username,
	}

	dst := []any{&user.ID, &user.PasswordHash, &user.FullName, &user.Email, &user.IsActive, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	if err := r.loadUserRoles(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByEmail(email string) (*domain.User, error) {
	query := `
		SELECT id, username, password_hash, full_name, is_active, created_at, version
		FROM users WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{
		Email: email,
	}

	dst := []any{&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.IsActive, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(dst...); err != nil {
		return nil, err
	}

	if err := r.loadUserRoles(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) UpdateUser(user *domain.User) error {
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
		UPDATE users
		SET
		    password_hash = $1,
			full_name = $2,
			email = $3,
			is_active = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING username, created_at, version
	`

	args := []any{user.PasswordHash, user.FullName, user.Email, user.IsActive, user.ID, user.Version}
	dst := []any{&user.Username, &user.CreatedAt, &user.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	// Replace the role set wholesale.
	query = `DELETE FROM user_roles WHERE user_id = $1`
	if _, err := tx.ExecContext(ctx, query, user.ID); err != nil {
		return err
	}

	for _, role := range user.Roles {
		query := `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, user.ID, role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) getUsers(where string, args ...any) ([]*domain.User, error) {
	query := `
		SELECT
			u.id,
			u.username,
			u.password_hash,
			u.full_name,
			u.email,
			u.is_active,
			u.created_at,
			u.version,
			ur.role
		FROM users u
		LEFT JOIN user_roles ur ON u.id = ur.user_id
	` + where + `
		ORDER BY u.id, ur.role
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	usersMap := make(map[int64]*domain.User)

	for rows.Next() {
		var row struct {
			user domain.User
			role sql.NullString
		}

		dst := []any{
			&row.user.ID,
			&row.user.Username,
			&row.user.PasswordHash,
			&row.user.FullName,
			&row.user.Email,
			&row.user.IsActive,
			&row.user.CreatedAt,
			&row.user.Version,
			&row.role,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		user, exists := usersMap[row.user.ID]
		if !exists {
			user = &row.user
			user.Roles = make([]domain.Role, 0, 2)
			usersMap[user.ID] = user
			users = append(users, user)
		}
		if row.role.Valid {
			user.Roles = append(user.Roles, domain.Role(row.role.String))
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) GetAllUsers() ([]*domain.User, error) {
	return r.getUsers("")
}

func (r *Repository) GetActiveUsers() ([]*domain.User, error) {
	return r.getUsers(`WHERE u.is_active = TRUE`)
}

func (r *Repository) DeleteUser(id int64) error {
	query := `
		DELETE FROM users WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateUser(user *domain.User) error {
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
		INSERT INTO users (username, password_hash, full_name, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, version
	`

	args := []any{user.Username, user.PasswordHash, user.FullName, user.Email}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.Version); err != nil {
		return err
	}

	for _, role := range user.Roles {
		query := `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, user.ID, role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) CheckEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}
