package repository

import (
	"database/sql"
	"fmt"

	"rentfleet/internal/db"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(database *sql.DB) *UserRepository {
	return &UserRepository{DB: database}
}

func (r *UserRepository) Create(user *db.User) error {
	query := `INSERT INTO users (username, password_hash, email, full_name, phone, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.DB.QueryRow(query, user.Username, user.PasswordHash, user.Email, user.FullName, user.Phone, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(username string) (*db.User, error) {
	query := `SELECT id, username, password_hash, COALESCE(email, ''), full_name, phone, role, created_at
		FROM users WHERE username = $1`
	return r.scanUser(r.DB.QueryRow(query, username))
}

func (r *UserRepository) GetByID(id int64) (*db.User, error) {
	query := `SELECT id, username, password_hash, COALESCE(email, ''), full_name, phone, role, created_at
		FROM users WHERE id = $1`
	return r.scanUser(r.DB.QueryRow(query, id))
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) UpdateProfile(id int64, fullName, phone string) error {
	result, err := r.DB.Exec(`UPDATE users SET full_name = $1, phone = $2 WHERE id = $3`, fullName, phone, id)
	if err != nil {
		return fmt.Errorf("error updating user profile: %w", err)
	}
	return requireRow(result)
}

func (r *UserRepository) UpdatePassword(id int64, passwordHash string) error {
	result, err := r.DB.Exec(`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return requireRow(result)
}

func (r *UserRepository) scanUser(row *sql.Row) (*db.User, error) {
	var u db.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
