// Package index maintains a derived SQLite index over the use case corpus.
// The TOML source records remain the source of truth; the database is
// rebuilt from them after every write and only serves list queries. It can
// be deleted at any time without data loss.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

// DBFile is the database filename under the project data directory.
const DBFile = "mucm.db"

// Schema DDL. The database is dropped and recreated on every rebuild, so
// no migration machinery is needed.
const (
	createUseCases = `CREATE TABLE use_cases (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    category TEXT NOT NULL,
    priority TEXT NOT NULL,
    status TEXT NOT NULL,
    scenario_count INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);`

	createViews = `CREATE TABLE views (
    use_case_id TEXT NOT NULL,
    methodology TEXT NOT NULL,
    level TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    PRIMARY KEY (use_case_id, methodology),
    FOREIGN KEY (use_case_id) REFERENCES use_cases(id)
);`

	createScenarios = `CREATE TABLE scenarios (
    id TEXT PRIMARY KEY,
    use_case_id TEXT NOT NULL,
    title TEXT NOT NULL,
    type TEXT NOT NULL,
    status TEXT NOT NULL,
    FOREIGN KEY (use_case_id) REFERENCES use_cases(id)
);`
)

// Filter narrows a list query. Zero-value fields match everything.
type Filter struct {
	Category   string
	Priority   string
	Status     string // Aggregated status.
	TitleQuery string // Case-insensitive substring match.
}

// Summary is one row of a list query.
type Summary struct {
	ID            string
	Title         string
	Category      string
	Priority      string
	Status        string
	ScenarioCount int
	Views         []types.View
}

// Index wraps the database handle. A nil *Index is a valid no-op receiver
// for Rebuild and Close, so callers can run without the index.
type Index struct {
	db   *sql.DB
	path string
}

// Open creates or opens the index database under dataDir.
func Open(dataDir string) (*Index, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dataDir, DBFile)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &Index{db: db, path: path}, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	if ix == nil || ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// Rebuild replaces the entire index with rows derived from the given
// corpus. The rebuild runs in one transaction; on failure the previous
// contents remain.
func (ix *Index) Rebuild(ucs []*types.UseCase) error {
	if ix == nil {
		return nil
	}
	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DROP TABLE IF EXISTS scenarios;`,
		`DROP TABLE IF EXISTS views;`,
		`DROP TABLE IF EXISTS use_cases;`,
		createUseCases,
		createViews,
		createScenarios,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("rebuild schema: %w", err)
		}
	}

	ucStmt, err := tx.Prepare(`INSERT INTO use_cases (id, title, category, priority, status, scenario_count, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ucStmt.Close()
	viewStmt, err := tx.Prepare(`INSERT INTO views (use_case_id, methodology, level, ordinal) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer viewStmt.Close()
	scStmt, err := tx.Prepare(`INSERT INTO scenarios (id, use_case_id, title, type, status) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer scStmt.Close()

	for _, uc := range ucs {
		updated := uc.Metadata.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z")
		if _, err := ucStmt.Exec(uc.ID, uc.Title, uc.Category, uc.Priority, uc.AggregatedStatus(), len(uc.Scenarios), updated); err != nil {
			return fmt.Errorf("index %s: %w", uc.ID, err)
		}
		for i, v := range uc.Views {
			if _, err := viewStmt.Exec(uc.ID, v.Methodology, v.Level, i); err != nil {
				return fmt.Errorf("index views of %s: %w", uc.ID, err)
			}
		}
		for _, s := range uc.Scenarios {
			if _, err := scStmt.Exec(s.ID, uc.ID, s.Title, s.Type, s.Status); err != nil {
				return fmt.Errorf("index scenarios of %s: %w", uc.ID, err)
			}
		}
	}
	return tx.Commit()
}

// Query returns summaries matching the filter, ordered by id.
func (ix *Index) Query(f Filter) ([]Summary, error) {
	if ix == nil {
		return nil, fmt.Errorf("index not open")
	}

	var conds []string
	var args []any
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, types.NormalizeCategory(f.Category))
	}
	if f.Priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, f.Priority)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.TitleQuery != "" {
		conds = append(conds, "title LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(f.TitleQuery)+"%")
	}

	query := `SELECT id, title, category, priority, status, scenario_count FROM use_cases`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := ix.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Category, &s.Priority, &s.Status, &s.ScenarioCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		views, err := ix.viewsOf(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Views = views
	}
	return out, nil
}

func (ix *Index) viewsOf(id string) ([]types.View, error) {
	rows, err := ix.db.Query(`SELECT methodology, level FROM views WHERE use_case_id = ? ORDER BY ordinal`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.View
	for rows.Next() {
		var v types.View
		if err := rows.Scan(&v.Methodology, &v.Level); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Match applies a filter to an in-memory corpus. It is the fallback used
// when no index database is open and mirrors Query's semantics.
func Match(ucs []*types.UseCase, f Filter) []Summary {
	category := types.NormalizeCategory(f.Category)
	var out []Summary
	for _, uc := range ucs {
		if f.Category != "" && uc.Category != category {
			continue
		}
		if f.Priority != "" && uc.Priority != f.Priority {
			continue
		}
		status := uc.AggregatedStatus()
		if f.Status != "" && status != f.Status {
			continue
		}
		if f.TitleQuery != "" && !strings.Contains(strings.ToLower(uc.Title), strings.ToLower(f.TitleQuery)) {
			continue
		}
		out = append(out, Summary{
			ID:            uc.ID,
			Title:         uc.Title,
			Category:      uc.Category,
			Priority:      uc.Priority,
			Status:        status,
			ScenarioCount: len(uc.Scenarios),
			Views:         append([]types.View(nil), uc.Views...),
		})
	}
	return out
}
