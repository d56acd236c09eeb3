package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/retroboard/internal/domain/folder"
)

// FolderRepository implements folder.Repository for SQLite
type FolderRepository struct {
	db *DB
}

// NewFolderRepository creates a new FolderRepository
func NewFolderRepository(db *DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// Create creates a new folder
func (r *FolderRepository) Create(ctx context.Context, f *folder.Folder) error {
	query := `INSERT INTO folders (id, user_id, name, color, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.conn(ctx).ExecContext(ctx, query, f.ID, f.UserID, f.Name, nullString(f.Color), toMillis(f.CreatedAt))
	if err != nil {
		return writeError("create folder", err)
	}
	return nil
}

// Get retrieves a folder by ID
func (r *FolderRepository) Get(ctx context.Context, id string) (*folder.Folder, error) {
	query := `SELECT id, user_id, name, color, created_at FROM folders WHERE id = ?`

	var (
		f         folder.Folder
		color     sql.NullString
		createdAt int64
	)
	err := r.db.conn(ctx).QueryRowContext(ctx, query, id).Scan(&f.ID, &f.UserID, &f.Name, &color, &createdAt)
	if err != nil {
		return nil, readError("get folder", err)
	}
	f.Color = stringPtr(color)
	f.CreatedAt = fromMillis(createdAt)
	return &f, nil
}

// Rename changes a folder's name
func (r *FolderRepository) Rename(ctx context.Context, id, name string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `UPDATE folders SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return writeError("rename folder", err)
	}
	return requireAffected("rename folder", result)
}

// Delete deletes a folder
func (r *FolderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		return writeError("delete folder", err)
	}
	return requireAffected("delete folder", result)
}

// ListByUser returns a user's folders by name
func (r *FolderRepository) ListByUser(ctx context.Context, userID string) ([]folder.Folder, error) {
	query := `
		SELECT id, user_id, name, color, created_at
		FROM folders
		WHERE user_id = ?
		ORDER BY name COLLATE NOCASE ASC, created_at ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	var folders []folder.Folder
	for rows.Next() {
		var (
			f         folder.Folder
			color     sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &color, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		f.Color = stringPtr(color)
		f.CreatedAt = fromMillis(createdAt)
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folders: %w", err)
	}
	return folders, nil
}
