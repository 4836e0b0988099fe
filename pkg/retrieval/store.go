// Package retrieval provides a SQLite-backed similarity store over chunks of
// previously approved projects. Code is chunked on ingest; queries rank
// chunks by cosine distance over term frequencies, lower meaning more
// similar, and suppress anything at or above the score threshold.
package retrieval

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"devcrew/pkg/config"
	"devcrew/pkg/logx"
)

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	project     TEXT NOT NULL,
	path        TEXT NOT NULL,
	chunk_index INTEGER NOT NULL,
	content     TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_chunks_project ON chunks(project);
`

// Result is a single retrieval hit. Score is a cosine distance: 0 means
// identical term profile, 1 means no shared terms.
type Result struct {
	Project string
	Path    string
	Content string
	Score   float64
}

// Store is a SQLite-backed chunk store. SQLite supports a single writer, so
// the connection pool is pinned to one connection.
type Store struct {
	db     *sql.DB
	cfg    config.RetrievalConfig
	logger *logx.Logger
}

// Open opens (creating if needed) the store at cfg.DBPath.
func Open(cfg config.RetrievalConfig) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000",
		cfg.DBPath,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open retrieval store: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping retrieval store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize retrieval schema: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{
		db:     db,
		cfg:    cfg,
		logger: logx.NewLogger("retrieval"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close retrieval store: %w", err)
	}
	return nil
}

// AddProject chunks every file of an approved project and stores the chunks
// under the project name. Returns the number of chunks written. Re-ingesting
// the same project name replaces its previous chunks.
func (s *Store) AddProject(ctx context.Context, project string, files map[string]string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin ingest transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE project = ?`, project); err != nil {
		return 0, fmt.Errorf("failed to clear previous chunks for %s: %w", project, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (project, path, chunk_index, content, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	total := 0
	for _, path := range sortedKeys(files) {
		for i, chunk := range ChunkText(files[path], s.cfg.ChunkSize, s.cfg.ChunkOverlap) {
			if _, err := stmt.ExecContext(ctx, project, path, i, chunk, now); err != nil {
				return 0, fmt.Errorf("failed to insert chunk %s#%d: %w", path, i, err)
			}
			total++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ingest for %s: %w", project, err)
	}

	s.logger.Info("ingested project %s: %d chunks from %d files", project, total, len(files))
	return total, nil
}

// Search ranks all stored chunks against the query and returns up to
// cfg.TopK results whose distance is strictly below cfg.ScoreThreshold,
// most similar first. An empty result set is normal for a cold store.
func (s *Store) Search(ctx context.Context, query string) ([]Result, error) {
	queryTF := termFrequencies(query)
	if len(queryTF) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT project, path, content FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Project, &r.Path, &r.Content); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		r.Score = cosineDistance(queryTF, termFrequencies(r.Content))
		if r.Score < s.cfg.ScoreThreshold {
			results = append(results, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chunk scan failed: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score < results[j].Score })
	if len(results) > s.cfg.TopK {
		results = results[:s.cfg.TopK]
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
