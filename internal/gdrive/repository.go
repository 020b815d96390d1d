package gdrive

import (
	"context"
	"fmt"
	"gsuitetool/internal/apierrors"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

const (
	driveFileFields  = "id,name,mimeType,size,createdTime,modifiedTime,parents,webViewLink"
	driveFilesFields = "nextPageToken,files(" + driveFileFields + ")"
	drivePathFields  = "id,name,mimeType,parents,driveId"
	driveAllFields   = "*"
)

// Repository is the raw Drive surface the Service needs. Errors are already tagged
// with an apierrors kind.
type Repository interface {
	Get(ctx context.Context, fileID string, fields string) (*drive.File, error)
	List(ctx context.Context, query string) ([]*drive.File, error)
	Create(ctx context.Context, file *drive.File, media io.Reader) (*drive.File, error)
}

type GoogleRepository struct {
	service *drive.Service
}

func NewGoogleRepository(service *drive.Service) *GoogleRepository {
	return &GoogleRepository{service: service}
}

func (r *GoogleRepository) Get(ctx context.Context, fileID string, fields string) (*drive.File, error) {
	f, err := r.service.Files.Get(fileID).
		SupportsAllDrives(true).
		Fields(googleapi.Field(fields)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, apierrors.FromAPI(fmt.Sprintf("failed to get file %s", fileID), err)
	}
	return f, nil
}

// List returns every page of results for query.
func (r *GoogleRepository) List(ctx context.Context, query string) (files []*drive.File, err error) {
	err = r.service.Files.List().
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Q(query).
		Fields(driveFilesFields).
		Pages(ctx, func(list *drive.FileList) error {
			files = append(files, list.Files...)
			return nil
		})
	if err != nil {
		return nil, apierrors.FromAPI("failed to list files", err)
	}
	return files, nil
}

func (r *GoogleRepository) Create(ctx context.Context, file *drive.File, media io.Reader) (*drive.File, error) {
	call := r.service.Files.Create(file).
		SupportsAllDrives(true).
		Fields(driveFileFields).
		Context(ctx)
	if media != nil {
		call = call.Media(media)
	}

	created, err := call.Do()
	if err != nil {
		return nil, apierrors.FromAPI(fmt.Sprintf("failed to create %q", file.Name), err)
	}
	return created, nil
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return s
}
