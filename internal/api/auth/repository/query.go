package authRepository

const (
	queryCreateUser = `
INSERT INTO users (id, username, embedding, password_hash, auth_mode, created_at)
VALUES (:id, :username, :embedding, :password_hash, :auth_mode, :created_at)`

	queryGetByUsername = `
SELECT id, username, embedding, password_hash, auth_mode, created_at
FROM users
    WHERE username = :username`

	queryListUsers = `
SELECT id, username, embedding, password_hash, auth_mode, created_at
FROM users
    ORDER BY created_at ASC`

	queryDeleteUser = `
DELETE FROM users
WHERE username = :username`
)
