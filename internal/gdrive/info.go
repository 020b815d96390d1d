package gdrive

import (
	"time"

	"google.golang.org/api/drive/v3"
)

const (
	mimeTypeFolder = "application/vnd.google-apps.folder"
	rootFolderID   = "root"

	sharedDrivePrefix = "Shared Drive: "
)

// FileInfo is the projection of a remote file returned by listings, uploads and folder creation.
type FileInfo struct {
	ID           string
	Name         string
	MimeType     string
	Size         int64
	CreatedTime  time.Time
	ModifiedTime time.Time
	Parents      []string
	WebViewLink  string
}

func (i FileInfo) IsFolder() bool {
	return i.MimeType == mimeTypeFolder
}

// isSharedDriveRoot reports whether f is the top folder of a shared drive, whose ID equals
// the drive's own ID.
func isSharedDriveRoot(f *drive.File) bool {
	return f.DriveId != "" && f.DriveId == f.Id
}

func newFileInfo(f *drive.File) FileInfo {
	created, _ := time.Parse(time.RFC3339, f.CreatedTime)
	modified, _ := time.Parse(time.RFC3339, f.ModifiedTime)
	return FileInfo{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		Size:         f.Size,
		CreatedTime:  created,
		ModifiedTime: modified,
		Parents:      f.Parents,
		WebViewLink:  f.WebViewLink,
	}
}
