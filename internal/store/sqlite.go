package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

// SQLiteStore implements ProjectStore and PublicationStore on a single
// SQLite database. Use ":memory:" for tests, a file path otherwise.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner TEXT NOT NULL,
		site BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner);

	CREATE TABLE IF NOT EXISTS publications (
		subdomain TEXT PRIMARY KEY,
		project_id TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		published_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put inserts or updates a project. UpdatedAt is stamped here; CreatedAt
// is preserved on update.
func (s *SQLiteStore) Put(ctx context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	site, err := json.Marshal(p.Site)
	if err != nil {
		return fmt.Errorf("marshal site: %w", err)
	}

	now := time.Now()
	p.UpdatedAt = now
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, owner, site, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			site = excluded.site,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Owner, site, p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert project: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, owner, site, created_at, updated_at FROM projects WHERE id = ?", id)
	return scanProject(row)
}

func (s *SQLiteStore) List(ctx context.Context, owner string) ([]*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, owner, site, created_at, updated_at FROM projects WHERE owner = ? ORDER BY updated_at DESC", owner)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return projects, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var p Project
	var site []byte
	var created, updated int64

	err := row.Scan(&p.ID, &p.Name, &p.Owner, &site, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	if err := json.Unmarshal(site, &p.Site); err != nil {
		return nil, fmt.Errorf("unmarshal site: %w", err)
	}
	p.CreatedAt = time.Unix(created, 0)
	p.UpdatedAt = time.Unix(updated, 0)
	return &p, nil
}

// PutPublication records a subdomain assignment. A subdomain held by a
// different project fails; republishing the same project to the same
// subdomain refreshes the timestamp.
func (s *SQLiteStore) PutPublication(ctx context.Context, pub *Publication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT project_id FROM publications WHERE subdomain = ?", pub.Subdomain).Scan(&existing)
	switch {
	case err == nil && existing != pub.ProjectID:
		return fmt.Errorf("subdomain %q already taken", pub.Subdomain)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("check subdomain: %w", err)
	}

	// A project moving to a new subdomain drops its old one.
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM publications WHERE project_id = ? AND subdomain != ?",
		pub.ProjectID, pub.Subdomain); err != nil {
		return fmt.Errorf("clear previous subdomain: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO publications (subdomain, project_id, url, published_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(subdomain) DO UPDATE SET
			url = excluded.url,
			published_at = excluded.published_at`,
		pub.Subdomain, pub.ProjectID, pub.URL, pub.PublishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert publication: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetPublicationBySubdomain(ctx context.Context, subdomain string) (*Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT subdomain, project_id, url, published_at FROM publications WHERE subdomain = ?", subdomain)
	return scanPublication(row)
}

func (s *SQLiteStore) GetPublicationByProject(ctx context.Context, projectID string) (*Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT subdomain, project_id, url, published_at FROM publications WHERE project_id = ?", projectID)
	return scanPublication(row)
}

func (s *SQLiteStore) DeletePublication(ctx context.Context, subdomain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM publications WHERE subdomain = ?", subdomain)
	if err != nil {
		return fmt.Errorf("delete publication: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListPublications(ctx context.Context) ([]*Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT subdomain, project_id, url, published_at FROM publications ORDER BY subdomain")
	if err != nil {
		return nil, fmt.Errorf("query publications: %w", err)
	}
	defer rows.Close()

	var pubs []*Publication
	for rows.Next() {
		pub, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, pub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return pubs, nil
}

func scanPublication(row rowScanner) (*Publication, error) {
	var pub Publication
	var published int64

	err := row.Scan(&pub.Subdomain, &pub.ProjectID, &pub.URL, &published)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan publication: %w", err)
	}
	pub.PublishedAt = time.Unix(published, 0)
	return &pub, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// CountProjects returns the number of projects an owner has, used for
// tier limit checks before creation.
func (s *SQLiteStore) CountProjects(ctx context.Context, owner string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM projects WHERE owner = ?", owner).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

// DeleteStaleProjects removes projects last updated before cutoff that
// have no live publication. Returns the number pruned.
func (s *SQLiteStore) DeleteStaleProjects(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM projects
		WHERE updated_at < ?
		  AND id NOT IN (SELECT project_id FROM publications)`,
		cutoff.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("prune stale projects: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned projects: %w", err)
	}
	return int(n), nil
}

var _ ProjectStore = (*SQLiteStore)(nil)

// NewSite returns an empty current-schema snapshot, used when creating
// fresh projects.
func NewSite(name string) sitemodel.SiteData {
	return sitemodel.SiteData{
		Profile:     sitemodel.UserProfile{Name: name},
		Blocks:      []sitemodel.BlockData{},
		GridVersion: sitemodel.GridVersion,
	}
}
