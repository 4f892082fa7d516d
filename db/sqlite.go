package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoTrainingLog is returned when no training run has been recorded yet.
var ErrNoTrainingLog = errors.New("no training runs recorded")

type Store struct {
	database *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS training_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        model_name VARCHAR(50) NOT NULL,
        model_path TEXT NOT NULL,
        dataset_path TEXT NOT NULL,
        schema VARCHAR(64) NOT NULL,
        rows_loaded INTEGER NOT NULL,
        rows_cleaned INTEGER NOT NULL,
        train_rows INTEGER NOT NULL,
        test_rows INTEGER NOT NULL,
        r2_test REAL,
        intercept REAL NOT NULL,
        seed INTEGER NOT NULL,
        trained_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_training_log_trained_at ON training_log(trained_at);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{database: database}, nil
}

func (s *Store) Close() error {
	return s.database.Close()
}

type TrainingLog struct {
	ID          int64     `json:"id"`
	ModelName   string    `json:"model_name"`
	ModelPath   string    `json:"model_path"`
	DatasetPath string    `json:"dataset_path"`
	Schema      string    `json:"schema"`
	RowsLoaded  int       `json:"rows_loaded"`
	RowsCleaned int       `json:"rows_cleaned"`
	TrainRows   int       `json:"train_rows"`
	TestRows    int       `json:"test_rows"`
	R2Test      float64   `json:"r2_test"`
	Intercept   float64   `json:"intercept"`
	Seed        int64     `json:"seed"`
	TrainedAt   time.Time `json:"trained_at"`
}

func (s *Store) SaveTrainingLog(entry TrainingLog) (int64, error) {
	if entry.TrainedAt.IsZero() {
		entry.TrainedAt = time.Now().UTC()
	}
	result, err := s.database.Exec(`
        INSERT INTO training_log (
            model_name, model_path, dataset_path, schema, rows_loaded, rows_cleaned,
            train_rows, test_rows, r2_test, intercept, seed, trained_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ModelName,
		entry.ModelPath,
		entry.DatasetPath,
		entry.Schema,
		entry.RowsLoaded,
		entry.RowsCleaned,
		entry.TrainRows,
		entry.TestRows,
		entry.R2Test,
		entry.Intercept,
		entry.Seed,
		entry.TrainedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// LoadTrainingLog returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) LoadTrainingLog(limit int) ([]TrainingLog, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.database.Query(`
        SELECT id, model_name, model_path, dataset_path, schema, rows_loaded, rows_cleaned,
               train_rows, test_rows, r2_test, intercept, seed, trained_at
        FROM training_log
        ORDER BY trained_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]TrainingLog, 0)
	for rows.Next() {
		var log TrainingLog
		var r2 sql.NullFloat64
		if err := rows.Scan(&log.ID, &log.ModelName, &log.ModelPath, &log.DatasetPath, &log.Schema,
			&log.RowsLoaded, &log.RowsCleaned, &log.TrainRows, &log.TestRows, &r2,
			&log.Intercept, &log.Seed, &log.TrainedAt); err != nil {
			return nil, err
		}
		if r2.Valid {
			log.R2Test = r2.Float64
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (s *Store) LatestTrainingLog() (*TrainingLog, error) {
	logs, err := s.LoadTrainingLog(1)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, ErrNoTrainingLog
	}
	return &logs[0], nil
}
