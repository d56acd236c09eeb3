package folder

import "errors"

var (
	// ErrFolderNotFound indicates the folder doesn't exist or is not visible to the caller.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrNotAuthorized indicates the caller does not own the folder.
	ErrNotAuthorized = errors.New("not authorized to modify folder")
	// ErrInvalidInput indicates invalid folder input.
	ErrInvalidInput = errors.New("invalid folder input")
)
