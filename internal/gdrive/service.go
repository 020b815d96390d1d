package gdrive

import (
	"context"
	"fmt"
	"gsuitetool/internal/apierrors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
)

const (
	defaultPathSeparator = "/"
	defaultMaxPathDepth  = 64
)

// Service is the Drive facade. Its default folder is fixed at construction and used
// whenever an operation is called without an explicit parent.
type Service struct {
	logger        *zap.Logger
	repo          Repository
	defaultFolder string
	separator     string
	maxDepth      int
}

type Option func(*Service) error

// WithFolderURL sets the default folder from a Drive folder link. An empty url is ignored.
func WithFolderURL(url string) Option {
	return func(s *Service) error {
		if url == "" {
			return nil
		}
		id, err := URLToID(url)
		if err != nil {
			return err
		}
		s.defaultFolder = id
		return nil
	}
}

func WithPathSeparator(sep string) Option {
	return func(s *Service) error {
		if sep != "" {
			s.separator = sep
		}
		return nil
	}
}

func WithMaxPathDepth(n int) Option {
	return func(s *Service) error {
		if n <= 0 {
			return apierrors.NewValidationError(fmt.Sprintf("max path depth must be positive, got %d", n), nil)
		}
		s.maxDepth = n
		return nil
	}
}

func New(logger *zap.Logger, repo Repository, opts ...Option) (*Service, error) {
	s := &Service{
		logger:    logger,
		repo:      repo,
		separator: defaultPathSeparator,
		maxDepth:  defaultMaxPathDepth,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// DefaultFolder returns the folder ID parsed at construction, or "" when none was given.
func (s *Service) DefaultFolder() string {
	return s.defaultFolder
}

func (s *Service) parentOrDefault(parentID string) string {
	switch {
	case parentID != "":
		return parentID
	case s.defaultFolder != "":
		return s.defaultFolder
	default:
		return rootFolderID
	}
}

// ListFilesInFolder returns the non-folder, non-trashed children of folderID.
func (s *Service) ListFilesInFolder(ctx context.Context, folderID string) ([]FileInfo, error) {
	if folderID == "" {
		return nil, apierrors.NewValidationError("folder id is required", nil)
	}
	q := fmt.Sprintf("'%s' in parents and trashed = false and mimeType != '%s'", escapeQuery(folderID), mimeTypeFolder)

	files, err := s.listChildren(ctx, folderID, q, func(i FileInfo) bool { return !i.IsFolder() })
	if err != nil {
		return nil, fmt.Errorf("failed to list files in folder %s: %w", folderID, err)
	}
	return files, nil
}

// ListFolders returns the folders directly under parentID, the default folder, or the root.
func (s *Service) ListFolders(ctx context.Context, parentID string) ([]FileInfo, error) {
	parent := s.parentOrDefault(parentID)
	q := fmt.Sprintf("'%s' in parents and trashed = false and mimeType = '%s'", escapeQuery(parent), mimeTypeFolder)

	folders, err := s.listChildren(ctx, parent, q, FileInfo.IsFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders in %s: %w", parent, err)
	}
	return folders, nil
}

func (s *Service) listChildren(ctx context.Context, folderID, query string, keep func(FileInfo) bool) ([]FileInfo, error) {
	folder, err := s.repo.Get(ctx, folderID, drivePathFields)
	if err != nil {
		return nil, err
	}
	if folder.MimeType != mimeTypeFolder {
		return nil, apierrors.NewValidationError(fmt.Sprintf("%s is not a folder", folderID), nil)
	}

	list, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	children := []FileInfo{}
	for _, f := range list {
		info := newFileInfo(f)
		if keep(info) {
			children = append(children, info)
		}
	}

	s.logger.Debug("listed folder",
		zap.String("folder", folderID),
		zap.Int("count", len(children)),
	)
	return children, nil
}

// UploadFile streams the local file at filePath into parentID (or the default folder, or
// the root) under fileName. The local file is opened before any remote call is made.
func (s *Service) UploadFile(ctx context.Context, filePath, fileName, parentID string) (FileInfo, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return FileInfo{}, apierrors.NewLocalIOError(fmt.Sprintf("failed to open %s", filePath), err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return FileInfo{}, apierrors.NewLocalIOError(fmt.Sprintf("failed to stat %s", filePath), err)
	}
	if stat.IsDir() {
		return FileInfo{}, apierrors.NewLocalIOError(fmt.Sprintf("%s is a directory", filePath), nil)
	}

	if fileName == "" {
		fileName = filepath.Base(filePath)
	}
	parent := s.parentOrDefault(parentID)

	created, err := s.repo.Create(ctx, &drive.File{
		Name:    fileName,
		Parents: []string{parent},
	}, f)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to upload %s: %w", filePath, err)
	}

	s.logger.Info("uploaded file",
		zap.String("path", filePath),
		zap.String("name", fileName),
		zap.String("parent", parent),
		zap.String("id", created.Id),
		zap.Int64("size", stat.Size()),
	)
	return newFileInfo(created), nil
}

// CreateFolder creates folderName under parentID (or the default folder, or the root).
// It is not idempotent: a second call creates a second folder with the same name.
func (s *Service) CreateFolder(ctx context.Context, folderName, parentID string) (FileInfo, error) {
	if folderName == "" {
		return FileInfo{}, apierrors.NewValidationError("folder name is required", nil)
	}
	parent := s.parentOrDefault(parentID)

	created, err := s.repo.Create(ctx, &drive.File{
		Name:     folderName,
		MimeType: mimeTypeFolder,
		Parents:  []string{parent},
	}, nil)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to create folder %q: %w", folderName, err)
	}

	s.logger.Info("created folder",
		zap.String("name", folderName),
		zap.String("parent", parent),
		zap.String("id", created.Id),
	)
	return newFileInfo(created), nil
}

// GetFileMetadata returns the full metadata record of a file or folder.
func (s *Service) GetFileMetadata(ctx context.Context, fileID string) (*drive.File, error) {
	if fileID == "" {
		return nil, apierrors.NewValidationError("file id is required", nil)
	}
	f, err := s.repo.Get(ctx, fileID, driveAllFields)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata for %s: %w", fileID, err)
	}
	return f, nil
}

// GetFolderPath joins folder names from the top of the parent chain down to folderID.
// An empty folderID resolves the root. When the chain ends at a shared drive the path
// starts with "Shared Drive: <drive name>". A chain that revisits a folder or grows past the
// max depth fails with ErrFolderCycle.
func (s *Service) GetFolderPath(ctx context.Context, folderID string) (string, error) {
	id := folderID
	if id == "" {
		id = rootFolderID
	}

	visited := map[string]bool{}
	var names []string
	for {
		if len(names) >= s.maxDepth {
			return "", apierrors.New(apierrors.ErrFolderCycle,
				fmt.Sprintf("path of %s exceeds %d levels", folderID, s.maxDepth), nil)
		}
		if visited[id] {
			return "", apierrors.New(apierrors.ErrFolderCycle,
				fmt.Sprintf("folder %s is its own ancestor", id), nil)
		}
		visited[id] = true

		f, err := s.repo.Get(ctx, id, drivePathFields)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path at %s: %w", id, err)
		}
		if len(f.Parents) == 0 {
			name := f.Name
			if isSharedDriveRoot(f) {
				name = sharedDrivePrefix + name
			}
			names = append(names, name)
			break
		}
		names = append(names, f.Name)
		id = f.Parents[0]
	}

	slices.Reverse(names)
	path := strings.Join(names, s.separator)

	s.logger.Debug("resolved folder path", zap.String("folder", folderID), zap.String("path", path))
	return path, nil
}
