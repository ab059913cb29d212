package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/meetingmind-ai/meetingmind/internal/artifact"
	"github.com/meetingmind-ai/meetingmind/internal/common"
)

// Store persists artifact batches in SQLite. It is the durable side of the
// pipeline's hand-off: the pipeline itself never reads from it.
type Store struct {
	db *sqlx.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS rocks (
                id TEXT PRIMARY KEY,
                quarter_id TEXT NOT NULL,
                title TEXT NOT NULL,
                owner TEXT,
                owner_id TEXT,
                designation TEXT,
                linked_issues TEXT,
                created_at DATETIME NOT NULL,
                updated_at DATETIME NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS tasks (
                id TEXT PRIMARY KEY,
                rock_id TEXT NOT NULL,
                week INTEGER NOT NULL,
                milestone TEXT NOT NULL,
                created_at DATETIME NOT NULL,
                updated_at DATETIME NOT NULL,
                FOREIGN KEY(rock_id) REFERENCES rocks(id) ON DELETE CASCADE
        );`,
	`CREATE TABLE IF NOT EXISTS todos (
                id TEXT PRIMARY KEY,
                quarter_id TEXT NOT NULL,
                task TEXT NOT NULL,
                details TEXT,
                assignee TEXT,
                assignee_id TEXT,
                due_date TEXT,
                created_at DATETIME NOT NULL,
                updated_at DATETIME NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS issues (
                id TEXT PRIMARY KEY,
                quarter_id TEXT NOT NULL,
                title TEXT NOT NULL,
                description TEXT,
                raiser TEXT,
                raiser_id TEXT,
                linked_solution TEXT,
                created_at DATETIME NOT NULL,
                updated_at DATETIME NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS runtime_solutions (
                id TEXT PRIMARY KEY,
                quarter_id TEXT NOT NULL,
                problem TEXT,
                solution TEXT,
                resolver TEXT,
                resolver_id TEXT,
                created_at DATETIME NOT NULL,
                updated_at DATETIME NOT NULL
        );`,
}

// Open constructs a Store backed by the SQLite database at the configured
// path, migrating the schema on first use.
func Open(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path required")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve sqlite path: %w", err)
	}
	busy := int(cfg.BusyTimeout / time.Millisecond)
	if busy <= 0 {
		busy = 5000
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", abs, busy)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
	}
	common.Logger().Info("store: sqlite opened", "path", abs)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveBatch writes the five artifact arrays sequentially. A failing write
// aborts the remainder of the batch; rows already committed stand, and the
// recovery path is an idempotent re-run of the whole pipeline.
func (s *Store) SaveBatch(ctx context.Context, batch artifact.Batch) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialised")
	}
	logger := common.Logger()

	if err := s.saveRocks(ctx, batch.Rocks); err != nil {
		return fmt.Errorf("persist rocks: %w", err)
	}
	if err := s.saveTasks(ctx, batch.Tasks); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	if err := s.saveTodos(ctx, batch.Todos); err != nil {
		return fmt.Errorf("persist todos: %w", err)
	}
	if err := s.saveIssues(ctx, batch.Issues); err != nil {
		return fmt.Errorf("persist issues: %w", err)
	}
	if err := s.saveSolutions(ctx, batch.RuntimeSolutions); err != nil {
		return fmt.Errorf("persist runtime solutions: %w", err)
	}
	logger.Info("store: batch persisted",
		"rocks", len(batch.Rocks),
		"tasks", len(batch.Tasks),
		"todos", len(batch.Todos),
		"issues", len(batch.Issues),
		"runtime_solutions", len(batch.RuntimeSolutions))
	return nil
}

func (s *Store) saveRocks(ctx context.Context, rocks []artifact.Rock) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, rock := range rocks {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO rocks (id, quarter_id, title, owner, owner_id, designation, linked_issues, created_at, updated_at)
                                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				rock.ID, rock.QuarterID, rock.Title, rock.Owner, rock.OwnerID,
				rock.Designation, strings.Join(rock.LinkedIssues, "\n"), rock.CreatedAt, rock.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) saveTasks(ctx context.Context, tasks []artifact.Task) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, task := range tasks {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO tasks (id, rock_id, week, milestone, created_at, updated_at)
                                 VALUES (?, ?, ?, ?, ?, ?)`,
				task.ID, task.RockID, task.Week, task.Milestone, task.CreatedAt, task.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) saveTodos(ctx context.Context, todos []artifact.Todo) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, todo := range todos {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO todos (id, quarter_id, task, details, assignee, assignee_id, due_date, created_at, updated_at)
                                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				todo.ID, todo.QuarterID, todo.Task, todo.Details, todo.Assignee,
				todo.AssigneeID, todo.DueDate, todo.CreatedAt, todo.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) saveIssues(ctx context.Context, issues []artifact.Issue) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, issue := range issues {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO issues (id, quarter_id, title, description, raiser, raiser_id, linked_solution, created_at, updated_at)
                                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				issue.ID, issue.QuarterID, issue.Title, issue.Description, issue.Raiser,
				issue.RaiserID, issue.LinkedSolution, issue.CreatedAt, issue.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) saveSolutions(ctx context.Context, solutions []artifact.RuntimeSolution) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, solution := range solutions {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO runtime_solutions (id, quarter_id, problem, solution, resolver, resolver_id, created_at, updated_at)
                                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				solution.ID, solution.QuarterID, solution.Problem, solution.Solution,
				solution.Resolver, solution.ResolverID, solution.CreatedAt, solution.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// CountByQuarter reports how many rows of each artifact kind exist for a
// quarter. Used by the runner to confirm persistence.
func (s *Store) CountByQuarter(ctx context.Context, quarterID string) (map[string]int, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialised")
	}
	counts := make(map[string]int, 4)
	for _, table := range []string{"rocks", "todos", "issues", "runtime_solutions"} {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE quarter_id = ?", table)
		if err := s.db.GetContext(ctx, &count, query, quarterID); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
