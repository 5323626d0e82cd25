package users

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo stores farmer accounts in the Postgres users table.
type PGRepo struct {
	DB *sql.DB
}

// Upsert inserts or refreshes the OAuth profile. The role is only set on
// insert so promotions survive later logins.
func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, given_name, family_name, picture_url, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  given_name = EXCLUDED.given_name,
  family_name = EXCLUDED.family_name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()`
	role := user.Role
	if role == "" {
		role = RoleFarmer
	}
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.FullName),
		nullableString(user.GivenName),
		nullableString(user.FamilyName),
		nullableString(user.PictureURL),
		role,
	)
	return err
}

// GetByID returns the account for userID, or ErrNotFound.
func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, full_name, given_name, family_name, picture_url, role, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	var user User
	var fullName, givenName, familyName, pictureURL sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&fullName,
		&givenName,
		&familyName,
		&pictureURL,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.FullName = fullName.String
	user.GivenName = givenName.String
	user.FamilyName = familyName.String
	user.PictureURL = pictureURL.String
	return user, nil
}

// nullableString stores empty profile fields as NULL.
func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
