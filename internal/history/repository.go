package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Attempt представляет одну завершенную сессию в истории кандидата
type Attempt struct {
	ID                 int64     `db:"id"`
	SessionID          string    `db:"session_id"`
	Mode               string    `db:"mode"`
	Technical          bool      `db:"technical"`
	HireabilityScore   *float64  `db:"hireability_score"`
	HireabilityVerdict string    `db:"hireability_verdict"`
	DSAScore           *int      `db:"dsa_score"`
	DSALevel           string    `db:"dsa_level"`
	ProblemsSolved     int       `db:"problems_solved"`
	CreatedAt          time.Time `db:"created_at"`
}

// Repository хранит историю попыток в SQLite
type Repository struct {
	db *sqlx.DB
}

// Connect открывает базу истории и создает схему при необходимости
func Connect(path string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории данных: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе: %w", err)
	}

	// SQLite не поддерживает параллельную запись
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			mode TEXT NOT NULL,
			technical BOOLEAN NOT NULL DEFAULT false,
			hireability_score REAL,
			hireability_verdict TEXT NOT NULL DEFAULT '',
			dsa_score INTEGER,
			dsa_level TEXT NOT NULL DEFAULT '',
			problems_solved INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка создания таблицы attempts: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close закрывает соединение с базой
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save записывает попытку в историю
func (r *Repository) Save(attempt *Attempt) error {
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO attempts (
			session_id, mode, technical, hireability_score,
			hireability_verdict, dsa_score, dsa_level, problems_solved, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	result, err := r.db.Exec(
		query,
		attempt.SessionID,
		attempt.Mode,
		attempt.Technical,
		attempt.HireabilityScore,
		attempt.HireabilityVerdict,
		attempt.DSAScore,
		attempt.DSALevel,
		attempt.ProblemsSolved,
		attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения попытки: %w", err)
	}

	attempt.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("ошибка получения идентификатора: %w", err)
	}
	return nil
}

// Recent возвращает последние попытки, новые первыми
func (r *Repository) Recent(limit int) ([]Attempt, error) {
	var attempts []Attempt
	err := r.db.Select(&attempts,
		"SELECT * FROM attempts ORDER BY created_at DESC, id DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения истории: %w", err)
	}
	return attempts, nil
}

// BySession возвращает попытку по идентификатору сессии
func (r *Repository) BySession(sessionID string) (*Attempt, error) {
	var attempt Attempt
	err := r.db.Get(&attempt,
		"SELECT * FROM attempts WHERE session_id = $1", sessionID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения попытки: %w", err)
	}
	return &attempt, nil
}
