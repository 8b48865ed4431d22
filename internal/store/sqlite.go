package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        username TEXT UNIQUE NOT NULL,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('user', 'assistant', 'system')),
        content TEXT NOT NULL,
        is_crisis BOOLEAN DEFAULT FALSE,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS mood_entries (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        score INTEGER NOT NULL,
        note TEXT,
        tags TEXT,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods
func (s *SQLiteStore) GetUserByUsername(username string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?", username).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?", email).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) CreateUser(username, email, passwordHash string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)", username, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.getUserByID(id)
}

func (s *SQLiteStore) getUserByID(id int64) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?", id).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Message methods
func (s *SQLiteStore) AppendMessage(userID int64, role, content string, isCrisis bool) (*ChatMessage, error) {
	msg := ChatMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		IsCrisis:  isCrisis,
		Timestamp: time.Now(),
	}

	stmt, err := s.db.Prepare("INSERT INTO messages (id, user_id, role, content, is_crisis, timestamp) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(msg.ID, msg.UserID, msg.Role, msg.Content, msg.IsCrisis, msg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to execute message insert: %w", err)
	}
	return &msg, nil
}

// ListRecentMessages returns up to limit messages for the user, newest first.
// Timestamp ties are broken by insertion order.
func (s *SQLiteStore) ListRecentMessages(userID int64, limit int) ([]ChatMessage, error) {
	query := "SELECT id, user_id, role, content, is_crisis, timestamp FROM messages WHERE user_id = ? ORDER BY timestamp DESC, rowid DESC LIMIT ?"
	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListMessages returns up to limit messages for the user in chronological order.
func (s *SQLiteStore) ListMessages(userID int64, limit int) ([]ChatMessage, error) {
	query := "SELECT id, user_id, role, content, is_crisis, timestamp FROM messages WHERE user_id = ? ORDER BY timestamp ASC, rowid ASC LIMIT ?"
	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]ChatMessage, error) {
	var messages []ChatMessage
	for rows.Next() {
		var msg ChatMessage
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Role, &msg.Content, &msg.IsCrisis, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Mood entry methods
func (s *SQLiteStore) AppendMoodEntry(userID int64, score int, note, tags string) (*MoodEntry, error) {
	entry := MoodEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Score:     score,
		Note:      note,
		Tags:      tags,
		Timestamp: time.Now(),
	}

	stmt, err := s.db.Prepare("INSERT INTO mood_entries (id, user_id, score, note, tags, timestamp) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare mood entry insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(entry.ID, entry.UserID, entry.Score, entry.Note, entry.Tags, entry.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to execute mood entry insert: %w", err)
	}
	return &entry, nil
}

// ListMoodEntries returns all mood entries for the user in chronological order.
func (s *SQLiteStore) ListMoodEntries(userID int64) ([]MoodEntry, error) {
	query := "SELECT id, user_id, score, note, tags, timestamp FROM mood_entries WHERE user_id = ? ORDER BY timestamp ASC, rowid ASC"
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood entries: %w", err)
	}
	defer rows.Close()

	return scanMoodEntries(rows)
}

// ListRecentMoodEntries returns up to limit mood entries, newest first.
func (s *SQLiteStore) ListRecentMoodEntries(userID int64, limit int) ([]MoodEntry, error) {
	query := "SELECT id, user_id, score, note, tags, timestamp FROM mood_entries WHERE user_id = ? ORDER BY timestamp DESC, rowid DESC LIMIT ?"
	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood entries: %w", err)
	}
	defer rows.Close()

	return scanMoodEntries(rows)
}

func scanMoodEntries(rows *sql.Rows) ([]MoodEntry, error) {
	var entries []MoodEntry
	for rows.Next() {
		var entry MoodEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Score, &entry.Note, &entry.Tags, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan mood entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
