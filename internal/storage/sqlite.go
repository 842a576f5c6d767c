package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/zodiac/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	// Foreign keys are a per-connection setting, so they go in the DSN.
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	var profileCols strings.Builder
	for _, f := range models.ProfileFields {
		fmt.Fprintf(&profileCols, "\t\t%s TEXT,\n", f.Column)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		website_url TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_projects_user_id ON projects(user_id);

	CREATE TABLE IF NOT EXISTS business_profiles (
		project_id TEXT PRIMARY KEY,
` + profileCols.String() + `		raw_json TEXT,
		extracted_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS outputs (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		language TEXT NOT NULL,
		format TEXT NOT NULL,
		tier TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_outputs_project_created ON outputs(project_id, created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateProject inserts a project and its empty profile in one transaction.
func (s *SQLiteStorage) CreateProject(ctx context.Context, p *models.Project) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, website_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, p.WebsiteURL, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO business_profiles (project_id, created_at, updated_at) VALUES (?, ?, ?)`,
		p.ID, now, now,
	); err != nil {
		return fmt.Errorf("failed to insert empty profile: %w", err)
	}
	return tx.Commit()
}

// GetProject returns a project by ID.
func (s *SQLiteStorage) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, website_url, created_at, updated_at
		 FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.WebsiteURL, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns projects newest first. An empty userID lists all projects.
func (s *SQLiteStorage) ListProjects(ctx context.Context, userID string) ([]*models.Project, error) {
	query := `SELECT id, user_id, name, website_url, created_at, updated_at FROM projects`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.WebsiteURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// UpdateProject updates the name and website URL of an existing project.
func (s *SQLiteStorage) UpdateProject(ctx context.Context, p *models.Project) error {
	p.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, website_url = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.WebsiteURL, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("project %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// DeleteProject removes a project; its profile and outputs cascade.
func (s *SQLiteStorage) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

func profileColumns() []string {
	cols := make([]string, 0, len(models.ProfileFields))
	for _, f := range models.ProfileFields {
		cols = append(cols, f.Column)
	}
	return cols
}

// profileValues returns the field values in ProfileFields order. Null fields
// become SQL NULL; lists are stored as JSON arrays.
func profileValues(p *models.BusinessProfile) ([]any, error) {
	texts, lists := p.TextFields(), p.ListFields()
	vals := make([]any, 0, len(models.ProfileFields))
	for _, f := range models.ProfileFields {
		switch f.Kind {
		case models.KindText:
			t := texts[f.Key]
			if !t.Valid {
				vals = append(vals, nil)
				continue
			}
			vals = append(vals, t.Value)
		case models.KindList:
			l := *lists[f.Key]
			if l == nil {
				vals = append(vals, nil)
				continue
			}
			data, err := json.Marshal([]string(l))
			if err != nil {
				return nil, fmt.Errorf("failed to marshal %s: %w", f.Key, err)
			}
			vals = append(vals, string(data))
		}
	}
	return vals, nil
}

// UpsertProfile inserts the profile or replaces every field of the existing row.
func (s *SQLiteStorage) UpsertProfile(ctx context.Context, p *models.BusinessProfile) error {
	vals, err := profileValues(p)
	if err != nil {
		return err
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	var extractedAt any
	if p.ExtractedAt != nil {
		extractedAt = *p.ExtractedAt
	}
	var rawJSON any
	if p.RawJSON != "" {
		rawJSON = p.RawJSON
	}

	cols := append([]string{"project_id"}, profileColumns()...)
	cols = append(cols, "raw_json", "extracted_at", "created_at", "updated_at")
	args := append([]any{p.ProjectID}, vals...)
	args = append(args, rawJSON, extractedAt, p.CreatedAt, p.UpdatedAt)

	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == "project_id" || c == "created_at" {
			continue
		}
		sets = append(sets, c+" = excluded."+c)
	}
	query := fmt.Sprintf(
		`INSERT INTO business_profiles (%s) VALUES (%s)
		 ON CONFLICT(project_id) DO UPDATE SET %s`,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
		strings.Join(sets, ", "),
	)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// GetProfile returns the profile of a project, or ErrNotFound when no row exists.
func (s *SQLiteStorage) GetProfile(ctx context.Context, projectID string) (*models.BusinessProfile, error) {
	cols := append(profileColumns(), "raw_json", "extracted_at", "created_at", "updated_at")
	query := fmt.Sprintf(`SELECT %s FROM business_profiles WHERE project_id = ?`, strings.Join(cols, ", "))

	raw := make([]sql.NullString, len(models.ProfileFields))
	dest := make([]any, 0, len(cols))
	for i := range raw {
		dest = append(dest, &raw[i])
	}
	var (
		p           = models.BusinessProfile{ProjectID: projectID}
		rawJSON     sql.NullString
		extractedAt sql.NullTime
	)
	dest = append(dest, &rawJSON, &extractedAt, &p.CreatedAt, &p.UpdatedAt)

	err := s.db.QueryRowContext(ctx, query, projectID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	texts, lists := p.TextFields(), p.ListFields()
	for i, f := range models.ProfileFields {
		if !raw[i].Valid {
			continue
		}
		switch f.Kind {
		case models.KindText:
			*texts[f.Key] = models.NewText(raw[i].String)
		case models.KindList:
			var l []string
			if err := json.Unmarshal([]byte(raw[i].String), &l); err != nil {
				return nil, fmt.Errorf("failed to unmarshal %s: %w", f.Key, err)
			}
			if l == nil {
				l = []string{}
			}
			*lists[f.Key] = l
		}
	}
	p.RawJSON = rawJSON.String
	if extractedAt.Valid {
		t := extractedAt.Time
		p.ExtractedAt = &t
	}
	return &p, nil
}

// CreateOutput inserts an output row.
func (s *SQLiteStorage) CreateOutput(ctx context.Context, o *models.Output) error {
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outputs (id, project_id, type, title, content, language, format, tier, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.ProjectID, o.Type, o.Title, o.Content, o.Language, o.Format, o.Tier, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert output: %w", err)
	}
	return nil
}

const outputColumns = `id, project_id, type, title, content, language, format, tier, created_at, updated_at`

func scanOutput(row interface{ Scan(...any) error }) (*models.Output, error) {
	var o models.Output
	err := row.Scan(&o.ID, &o.ProjectID, &o.Type, &o.Title, &o.Content, &o.Language, &o.Format, &o.Tier, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOutput returns an output by ID.
func (s *SQLiteStorage) GetOutput(ctx context.Context, id string) (*models.Output, error) {
	o, err := scanOutput(s.db.QueryRowContext(ctx, `SELECT `+outputColumns+` FROM outputs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("output %s: %w", id, ErrNotFound)
	}
	return o, err
}

// ListOutputs returns a project's outputs newest first. Rows sharing a
// timestamp are ordered by insertion.
func (s *SQLiteStorage) ListOutputs(ctx context.Context, projectID string) ([]*models.Output, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+outputColumns+` FROM outputs WHERE project_id = ?
		 ORDER BY created_at DESC, rowid DESC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outputs := []*models.Output{}
	for rows.Next() {
		o, err := scanOutput(rows)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, o)
	}
	return outputs, rows.Err()
}

// DeleteOutput removes an output by ID.
func (s *SQLiteStorage) DeleteOutput(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM outputs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("output %s: %w", id, ErrNotFound)
	}
	return nil
}

// Stats returns row counts and the on-disk size of the database files.
func (s *SQLiteStorage) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	for table, dst := range map[string]*int64{
		"projects":          &st.Projects,
		"business_profiles": &st.Profiles,
		"outputs":           &st.Outputs,
	} {
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(dst); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
	}
	for _, suffix := range []string{"", "-wal"} {
		if info, err := os.Stat(s.path + suffix); err == nil {
			st.DatabaseBytes += info.Size()
		}
	}
	return &st, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
