package repository

import (
	"context"
	"fmt"

	"saweb/api/internal/model"
)

func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var (
		user model.User
		role string
	)
	row := s.q.QueryRow(ctx, `
		SELECT user_id, username, password, role
		FROM Users
		WHERE username = $1
	`, username)
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &role); err != nil {
		return user, dbErr("get user", err)
	}
	// An unrecognised stored role leaves RoleUnknown, which no route admits.
	user.Role, _ = model.ParseRole(role)
	return user, nil
}

// CreateUser inserts the account and its role-specific profile in one transaction.
func (s *Store) CreateUser(ctx context.Context, user model.User, profile model.Profile) error {
	return s.WithTx(ctx, func(q executor) error {
		if _, err := q.Exec(ctx, `
			INSERT INTO Users (user_id, username, password, role)
			VALUES ($1, $2, $3, $4)
		`, user.ID, user.Username, user.PasswordHash, user.Role.String()); err != nil {
			return dbErr("insert user", err)
		}
		return insertProfile(ctx, q, user.Role, profile)
	})
}

func insertProfile(ctx context.Context, q executor, role model.Role, p model.Profile) error {
	var err error
	switch role {
	case model.RoleStudent:
		_, err = q.Exec(ctx, `
			INSERT INTO SinhVien (sinhvien_id, user_id, masv, hoten, email, khoa_id)
			VALUES ($1, $1, $2, $3, $4, $5)
		`, p.UserID, p.Code, p.Name, p.Email, p.KhoaID)
	case model.RoleLecturer:
		_, err = q.Exec(ctx, `
			INSERT INTO GiangVien (giangvien_id, user_id, magv, hoten, email, khoa_id)
			VALUES ($1, $1, $2, $3, $4, $5)
		`, p.UserID, p.Code, p.Name, p.Email, p.KhoaID)
	case model.RoleAdmin:
		_, err = q.Exec(ctx, `
			INSERT INTO Admin (admin_id, user_id, hoten, email)
			VALUES ($1, $1, $2, $3)
		`, p.UserID, p.Name, p.Email)
	case model.RoleUnknown:
		return fmt.Errorf("insert profile: invalid role")
	}
	return dbErr("insert profile", err)
}

// UpdateUser reports whether a row matched.
func (s *Store) UpdateUser(ctx context.Context, userID, username string, role model.Role) (bool, error) {
	tag, err := s.q.Exec(ctx, `UPDATE Users SET username = $1, role = $2 WHERE user_id = $3`, username, role.String(), userID)
	if err != nil {
		return false, dbErr("update user", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteUser removes only the Users row; role tables are left to the schema's
// foreign key actions.
func (s *Store) DeleteUser(ctx context.Context, userID string) (bool, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM Users WHERE user_id = $1`, userID)
	if err != nil {
		return false, dbErr("delete user", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) SetPassword(ctx context.Context, userID, passwordHash string) (bool, error) {
	tag, err := s.q.Exec(ctx, `UPDATE Users SET password = $1 WHERE user_id = $2`, passwordHash, userID)
	if err != nil {
		return false, dbErr("set password", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListUsers(ctx context.Context, filter UserFilter) ([]model.PublicUser, error) {
	query, args := filter.build()
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, dbErr("list users", err)
	}
	defer rows.Close()

	users := []model.PublicUser{}
	for rows.Next() {
		var u model.PublicUser
		if err := rows.Scan(&u.UserID, &u.Username, &u.Role); err != nil {
			return nil, dbErr("scan user", err)
		}
		users = append(users, u)
	}
	return users, dbErr("list users", rows.Err())
}
