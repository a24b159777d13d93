package commandRepository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	contextPkg "EchoOS/pkg/context"
	"EchoOS/internal/entity"
)

const (
	queryAppendLog = `
INSERT INTO command_log (id, username, transcript, category, intent, success, message, created_at)
VALUES (:id, :username, :transcript, :category, :intent, :success, :message, :created_at)`

	queryRecentLogs = `
SELECT id, username, transcript, category, intent, success, message, created_at
FROM command_log
    ORDER BY created_at DESC
    LIMIT ?`
)

func (r *logRepository) Append(c context.Context, record entity.CommandLog) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"id":         record.ID,
		"username":   record.Username,
		"transcript": record.Transcript,
		"category":   record.Category,
		"intent":     record.Intent,
		"success":    record.Success,
		"message":    record.Message,
		"created_at": time.Now(),
	}

	query, args, err := sqlx.Named(queryAppendLog, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for Append")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when appending command log")
		return err
	}

	return nil
}

func (r *logRepository) Recent(c context.Context, limit int) ([]entity.CommandLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := r.q.Rebind(queryRecentLogs)
	rows, err := r.q.QueryxContext(c, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []entity.CommandLog
	for rows.Next() {
		var record entity.CommandLog
		if err := rows.StructScan(&record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
