package authRepository

import (
	"EchoOS/internal/api/auth"
	"EchoOS/internal/entity"
	contextPkg "EchoOS/pkg/context"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type UserDB struct {
	ID           sql.NullString `db:"id"`
	Username     sql.NullString `db:"username"`
	Embedding    sql.NullString `db:"embedding"`
	PasswordHash sql.NullString `db:"password_hash"`
	AuthMode     sql.NullString `db:"auth_mode"`
	CreatedAt    sql.NullTime   `db:"created_at"`
}

func (r *userRepository) CreateUser(c context.Context, user entity.User) error {
	requestID := contextPkg.GetRequestID(c)

	embedding := ""
	if len(user.Embedding) > 0 {
		raw, err := json.Marshal(user.Embedding)
		if err != nil {
			return err
		}
		embedding = string(raw)
	}

	argsKV := map[string]interface{}{
		"id":            user.ID,
		"username":      user.Username,
		"embedding":     embedding,
		"password_hash": user.PasswordHash,
		"auth_mode":     string(user.AuthMode),
		"created_at":    time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateUser, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateUser")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		// modernc/sqlite surfaces UNIQUE violations as plain errors.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"username":   user.Username,
			}).Warn("Username already registered")
			return auth.ErrDuplicateUser
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating user")

		return err
	}

	return nil
}

func (r *userRepository) GetByUsername(c context.Context, username string) (entity.User, error) {
	requestID := contextPkg.GetRequestID(c)
	var user UserDB

	argsKV := map[string]interface{}{
		"username": username,
	}

	query, args, err := sqlx.Named(queryGetByUsername, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUsername named query preparation err")
		return entity.User{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"username":   username,
			}).Warn("GetByUsername no rows found")
			return entity.User{}, auth.ErrUserNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUsername execution err")
		return entity.User{}, err
	}

	return r.makeUser(user)
}

func (r *userRepository) ListUsers(c context.Context) ([]entity.User, error) {
	requestID := contextPkg.GetRequestID(c)

	query := r.q.Rebind(queryListUsers)

	rows, err := r.q.QueryxContext(c, query)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListUsers execution err")
		return nil, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		var row UserDB
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		user, err := r.makeUser(row)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *userRepository) DeleteUser(c context.Context, username string) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"username": username,
	}

	query, args, err := sqlx.Named(queryDeleteUser, argsKV)
	if err != nil {
		return err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteUser execution err")
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return auth.ErrUserNotFound
	}

	return nil
}

func (r *userRepository) makeUser(row UserDB) (entity.User, error) {
	user := entity.User{
		ID:           row.ID.String,
		Username:     row.Username.String,
		PasswordHash: row.PasswordHash.String,
		AuthMode:     entity.AuthMode(row.AuthMode.String),
		CreatedAt:    row.CreatedAt.Time,
	}

	if row.Embedding.String != "" {
		if err := json.Unmarshal([]byte(row.Embedding.String), &user.Embedding); err != nil {
			return entity.User{}, err
		}
	}

	return user, nil
}
