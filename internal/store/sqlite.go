package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore keeps the chat transcript. The default DSN is an in-memory
// database, so nothing outlives the process.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists per connection; pin the pool to one.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS messages (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT UNIQUE NOT NULL, -- UUID
        role TEXT NOT NULL CHECK (role IN ('user', 'model')),
        text TEXT NOT NULL,
        timestamp DATETIME NOT NULL
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// CreateMessage appends msg to the transcript, filling in its ID, sequence
// number and, when unset, its timestamp.
func (s *SQLiteStore) CreateMessage(msg *Message) error {
	if msg.Role != RoleUser && msg.Role != RoleModel {
		return fmt.Errorf("invalid message role %q", msg.Role)
	}
	msg.ID = uuid.NewString()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	stmt, err := s.db.Prepare("INSERT INTO messages (id, role, text, timestamp) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(msg.ID, msg.Role, msg.Text, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to execute message insert: %w", err)
	}
	msg.Seq, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) GetMessages(limit int, offset int) ([]Message, error) {
	query := "SELECT seq, id, role, text, timestamp FROM messages ORDER BY seq ASC LIMIT ? OFFSET ?"
	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// GetLastNMessages returns the newest n messages, oldest first.
func (s *SQLiteStore) GetLastNMessages(n int) ([]Message, error) {
	query := `
        SELECT seq, id, role, text, timestamp FROM (
            SELECT seq, id, role, text, timestamp
            FROM messages
            ORDER BY seq DESC
            LIMIT ?
        ) ORDER BY seq ASC
    `
	rows, err := s.db.Query(query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (s *SQLiteStore) CountMessages() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

func scanMessages(rows *sql.Rows) ([]Message, error) {
	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.Seq, &msg.ID, &msg.Role, &msg.Text, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}
