package migrations

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
)

const projectImagesVersion = 2

func projectImagesMigration() *goose.Migration {
	return goose.NewGoMigration(projectImagesVersion,
		&goose.GoFunc{RunTx: upProjectImages},
		&goose.GoFunc{RunTx: downProjectImages},
	)
}

// upProjectImages moves the legacy projects.p_images text column into the
// project_images table, one row per path, and drops the column.
func upProjectImages(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE project_images (
			id         BIGSERIAL PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects (p_id) ON DELETE CASCADE,
			path       TEXT NOT NULL,
			sort_order INTEGER NOT NULL,
			UNIQUE (project_id, sort_order)
		)`); err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, `SELECT p_id, p_images FROM projects WHERE p_images IS NOT NULL AND p_images <> ''`)
	if err != nil {
		return err
	}
	legacy := make(map[string][]string)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			rows.Close()
			return err
		}
		legacy[id] = ParseLegacyImages(raw)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	for id, paths := range legacy {
		for i, path := range paths {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO project_images (project_id, path, sort_order) VALUES ($1, $2, $3)`,
				id, path, i+1); err != nil {
				return fmt.Errorf("copy images of %s: %w", id, err)
			}
		}
	}

	_, err = tx.ExecContext(ctx, `ALTER TABLE projects DROP COLUMN p_images`)
	return err
}

func downProjectImages(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`ALTER TABLE projects ADD COLUMN p_images TEXT`,
		`UPDATE projects p SET p_images = (
			SELECT json_agg(i.path ORDER BY i.sort_order)::text
			FROM project_images i WHERE i.project_id = p.p_id)`,
		`DROP TABLE project_images`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ParseLegacyImages reads the old column format: a JSON array of paths, or a
// bare value that is taken as a single path. Blank entries are dropped.
func ParseLegacyImages(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" || raw == "[]" {
		return nil
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		var single string
		if json.Unmarshal([]byte(raw), &single) == nil {
			raw = single
		}
		list = []string{raw}
	}

	paths := list[:0]
	for _, p := range list {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil
	}
	return paths
}
