package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
)

// Table names for ranking history.
const (
	rankingRunsTable  = "elc_ranking_runs"
	schoolScoresTable = "elc_school_scores"
)

// historyTables lists the history tables in creation order.
var historyTables = []string{rankingRunsTable, schoolScoresTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	now     func() time.Time
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend, now: time.Now}, nil
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend, now: time.Now}, nil
}

// createHistoryTables creates the history tracking tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{rankingRunsTable, getCreateRankingRunsQuery(backend)},
		{schoolScoresTable, getCreateSchoolScoresQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRankingRunsQuery returns the CREATE TABLE query for elc_ranking_runs.
func getCreateRankingRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(rankingRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_schools INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_schools INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_schools INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateSchoolScoresQuery returns the CREATE TABLE query for elc_school_scores.
func getCreateSchoolScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(schoolScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				rank_position INT NOT NULL,
				school_id BIGINT NOT NULL,
				school_name VARCHAR(255) NOT NULL,
				ranked_at DATETIME(6) NOT NULL,
				score DOUBLE NOT NULL,
				score_label VARCHAR(20) NOT NULL,
				status VARCHAR(50) NOT NULL DEFAULT '',
				cost DOUBLE,
				education DOUBLE,
				staff DOUBLE,
				facilities DOUBLE,
				reputation DOUBLE,
				nqs DOUBLE,
				PRIMARY KEY (run_id, rank_position)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				rank_position INT NOT NULL,
				school_id BIGINT NOT NULL,
				school_name TEXT NOT NULL,
				ranked_at TIMESTAMPTZ NOT NULL,
				score DOUBLE PRECISION NOT NULL,
				score_label TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT '',
				cost DOUBLE PRECISION,
				education DOUBLE PRECISION,
				staff DOUBLE PRECISION,
				facilities DOUBLE PRECISION,
				reputation DOUBLE PRECISION,
				nqs DOUBLE PRECISION,
				PRIMARY KEY (run_id, rank_position)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				rank_position INTEGER NOT NULL,
				school_id INTEGER NOT NULL,
				school_name TEXT NOT NULL,
				ranked_at TEXT NOT NULL,
				score REAL NOT NULL,
				score_label TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT '',
				cost REAL,
				education REAL,
				staff REAL,
				facilities REAL,
				reputation REAL,
				nqs REAL,
				PRIMARY KEY (run_id, rank_position)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new ranking run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(rankingRunsTable, hs.backend)

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, formatTime(startTime, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert ranking run: %w", err)
	}
	return runID, nil
}

// EndRun updates the ranking run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalSchools int) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(rankingRunsTable, hs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(hs.backend, 1))

	startTime, err := hs.scanTime(hs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_schools = %s WHERE run_id = %s`,
		quotedTableName,
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3), placeholder(hs.backend, 4))

	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, totalSchools, runID); err != nil {
		return fmt.Errorf("failed to update ranking run: %w", err)
	}
	return nil
}

// RecordSchoolScore stores one ranked school for a run. Invalid ratings are stored as NULL.
func (hs *HistoryStoreImpl) RecordSchoolScore(runID int64, s schema.ScoredSchool) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(schoolScoresTable, hs.backend)
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, rank_position, school_id, school_name, ranked_at, score, score_label,
		                status, cost, education, staff, facilities, reputation, nqs)
		VALUES (%s)
	`, quotedTableName, placeholders(hs.backend, 14))

	args := []any{
		runID, s.Rank, s.ID, s.Name, formatTime(hs.now(), hs.backend), s.Score, schema.GetPlainLabel(s.Score),
		string(s.Status),
		nullableRating(s.Cost), nullableRating(s.Education), nullableRating(s.Staff),
		nullableRating(s.Facilities), nullableRating(s.Reputation), nullableRating(s.NQS),
	}

	if _, err := hs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert school score: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// scanTime reads a single timestamp column, handling the SQLite text encoding.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if hs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return parseTime(s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(rankingRunsTable, hs.backend)

	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		lastRunTime, err := hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunTime, err := hs.scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		row = hs.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_schools), 0) FROM %s", runsTable))
		if err := row.Scan(&status.TotalSchoolsScored); err != nil {
			return status, fmt.Errorf("failed to get total schools scored: %w", err)
		}
	}

	for _, table := range historyTables {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all ranking runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RankingRunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, start_time, end_time, run_duration_ms, total_schools, config_params FROM %s ORDER BY run_id",
		quoteTableName(rankingRunsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RankingRunRecord
	for rows.Next() {
		var record schema.RankingRunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs, &record.TotalSchools, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan ranking run: %w", err)
			}
			startTime, err := parseTime(startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := parseTime(*endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs, &record.TotalSchools, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan ranking run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranking runs: %w", err)
	}
	return results, nil
}

// GetAllSchoolScores retrieves all recorded school scores from the store.
func (hs *HistoryStoreImpl) GetAllSchoolScores() ([]schema.SchoolScoreRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, rank_position, school_id, school_name, ranked_at, score, score_label,
		status, cost, education, staff, facilities, reputation, nqs
		FROM %s ORDER BY run_id, rank_position`, quoteTableName(schoolScoresTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query school scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SchoolScoreRecord
	for rows.Next() {
		var record schema.SchoolScoreRecord
		var rankedAtStr string
		var rankedAt any = &record.RankedAt
		if hs.backend == schema.SQLiteBackend {
			rankedAt = &rankedAtStr
		}

		if err := rows.Scan(&record.RunID, &record.RankPosition, &record.SchoolID, &record.SchoolName, rankedAt,
			&record.Score, &record.ScoreLabel, &record.Status,
			&record.Cost, &record.Education, &record.Staff, &record.Facilities, &record.Reputation, &record.NQS); err != nil {
			return nil, fmt.Errorf("failed to scan school score: %w", err)
		}

		if hs.backend == schema.SQLiteBackend {
			t, err := parseTime(rankedAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse ranked_at: %w", err)
			}
			record.RankedAt = t
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating school scores: %w", err)
	}
	return results, nil
}
