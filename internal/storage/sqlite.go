// Package storage persists landed flights in SQLite for the leaderboard.
// It uses the pure-Go modernc.org/sqlite driver, so no CGO is needed.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
)

// DefaultPath is where the CLI keeps its database.
const DefaultPath = "~/.lander/lander.db"

// ErrDuplicateFlight is returned when a flight id has already been recorded.
var ErrDuplicateFlight = errors.New("storage: flight already recorded")

// Store is the leaderboard database.
type Store struct {
	db *sql.DB
}

// Landing is one leaderboard row.
type Landing struct {
	ID            int64
	FlightID      string
	World         string
	Level         int
	Score         int
	FuelRemaining float64
	Velocity      float64
	LateralOffset float64
	CreatedAt     time.Time
}

// Open creates or opens the database at dbPath, creating parent
// directories and the schema as needed. A leading ~ is expanded.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS landings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			flight_id TEXT NOT NULL UNIQUE,
			world TEXT NOT NULL,
			level INTEGER NOT NULL,
			score INTEGER NOT NULL,
			fuel REAL NOT NULL DEFAULT 0,
			velocity REAL NOT NULL DEFAULT 0,
			lateral_offset REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_landings_top ON landings(world, level, score DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveLanding stores a landed flight and returns its row id.
func (s *Store) SaveLanding(rec flight.Record) (int64, error) {
	result, err := s.db.Exec(
		`INSERT OR IGNORE INTO landings
		 (flight_id, world, level, score, fuel, velocity, lateral_offset)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.FlightID, rec.World, rec.LevelNumber, rec.Score,
		rec.FuelRemaining, rec.LandingVelocity, rec.LateralOffset,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save landing: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateFlight, rec.FlightID)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecordFlight stores rec, dropping its row id. It lets a Store act as
// the session's recorder.
func (s *Store) RecordFlight(rec flight.Record) error {
	_, err := s.SaveLanding(rec)
	return err
}

// TopLandings returns the best landings, highest score first.
// An empty world matches every world; level 0 matches every level.
// A non-positive limit defaults to 10.
func (s *Store) TopLandings(world string, level, limit int) ([]Landing, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, flight_id, world, level, score, fuel, velocity, lateral_offset, created_at
		 FROM landings
		 WHERE (? = '' OR world = ?) AND (? = 0 OR level = ?)
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		world, world, level, level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query landings: %w", err)
	}
	defer rows.Close()

	var entries []Landing
	for rows.Next() {
		var e Landing
		var createdAt any
		if err := rows.Scan(&e.ID, &e.FlightID, &e.World, &e.Level, &e.Score,
			&e.FuelRemaining, &e.Velocity, &e.LateralOffset, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the best score for a level, or 0 when it has none.
func (s *Store) HighScore(world string, level int) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM landings WHERE world = ? AND level = ?",
		world, level,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearLandings deletes every landing in world, or every landing when
// world is empty.
func (s *Store) ClearLandings(world string) error {
	_, err := s.db.Exec("DELETE FROM landings WHERE ? = '' OR world = ?", world, world)
	if err != nil {
		return fmt.Errorf("storage: cannot clear landings: %w", err)
	}
	return nil
}

// WorldStats aggregates the landings of one world.
type WorldStats struct {
	World        string
	Landings     int
	LevelsLanded int
	HighScore    int
	AvgScore     float64
	TotalScore   int64
	BestVelocity float64 // softest touchdown
	LastLanded   time.Time
}

// WorldStats returns aggregated statistics for world. A world without
// landings yields zero counts.
func (s *Store) WorldStats(world string) (*WorldStats, error) {
	stats := &WorldStats{World: world}

	var lastLanded any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT level), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), COALESCE(MIN(velocity), 0), MAX(created_at)
		 FROM landings WHERE world = ?`,
		world,
	).Scan(&stats.Landings, &stats.LevelsLanded, &stats.HighScore, &stats.AvgScore,
		&stats.TotalScore, &stats.BestVelocity, &lastLanded)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get world stats: %w", err)
	}
	stats.LastLanded = parseTime(lastLanded)
	return stats, nil
}

// AllWorldStats returns statistics for every world with at least one landing.
func (s *Store) AllWorldStats() (map[string]*WorldStats, error) {
	rows, err := s.db.Query(
		`SELECT world, COUNT(*), COUNT(DISTINCT level), MAX(score), AVG(score), SUM(score),
		        MIN(velocity), MAX(created_at)
		 FROM landings
		 GROUP BY world`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get world stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*WorldStats)
	for rows.Next() {
		var ws WorldStats
		var lastLanded any
		if err := rows.Scan(&ws.World, &ws.Landings, &ws.LevelsLanded, &ws.HighScore, &ws.AvgScore,
			&ws.TotalScore, &ws.BestVelocity, &lastLanded); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ws.LastLanded = parseTime(lastLanded)
		stats[ws.World] = &ws
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// parseTime accepts the driver's time.Time or SQLite's text timestamp.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
