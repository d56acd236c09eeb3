package folder

import "context"

// Repository provides persistence for folders.
type Repository interface {
	Create(ctx context.Context, f *Folder) error
	Get(ctx context.Context, id string) (*Folder, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]Folder, error)
}

// ParticipantRepository un-files boards from a folder.
type ParticipantRepository interface {
	ClearFolder(ctx context.Context, userID, folderID string) (int64, error)
}
