package gdrive

import (
	"context"
	"gsuitetool/internal/apierrors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
)

func newTestService(t *testing.T, repo Repository, opts ...Option) *Service {
	t.Helper()

	s, err := New(zap.NewNop(), repo, opts...)
	require.NoError(t, err)
	return s
}

func writeLocalFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_WithFolderURL(t *testing.T) {
	s := newTestService(t, newFakeRepository(), WithFolderURL("https://drive.google.com/drive/folders/abc_DEF-123"))
	assert.Equal(t, "abc_DEF-123", s.DefaultFolder())
}

func TestNew_InvalidFolderURL(t *testing.T) {
	_, err := New(zap.NewNop(), newFakeRepository(), WithFolderURL("https://example.com/folders/abc"))
	assert.ErrorIs(t, err, apierrors.ErrValidation)
}

func TestNew_InvalidMaxDepth(t *testing.T) {
	_, err := New(zap.NewNop(), newFakeRepository(), WithMaxPathDepth(0))
	assert.ErrorIs(t, err, apierrors.ErrValidation)
}

func TestListFilesInFolder_ExcludesFolders(t *testing.T) {
	repo := newFakeRepository()
	repo.folder("docs", "Docs", fakeRootID)
	repo.file("f1", "a.txt", "docs")
	repo.folder("sub", "Sub", "docs")
	repo.file("f2", "b.txt", "docs")
	repo.file("other", "c.txt", fakeRootID)

	s := newTestService(t, repo)
	files, err := s.ListFilesInFolder(context.Background(), "docs")
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, "b.txt", files[1].Name)
	for _, f := range files {
		assert.False(t, f.IsFolder())
	}
	assert.Contains(t, repo.queries[0], "mimeType != 'application/vnd.google-apps.folder'")
	assert.Contains(t, repo.queries[0], "trashed = false")
}

func TestListFilesInFolder_Empty(t *testing.T) {
	repo := newFakeRepository()
	repo.folder("empty", "Empty", fakeRootID)

	files, err := newTestService(t, repo).ListFilesInFolder(context.Background(), "empty")
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestListFilesInFolder_NotFound(t *testing.T) {
	_, err := newTestService(t, newFakeRepository()).ListFilesInFolder(context.Background(), "missing")
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestListFilesInFolder_NotAFolder(t *testing.T) {
	repo := newFakeRepository()
	repo.file("f1", "a.txt", fakeRootID)

	_, err := newTestService(t, repo).ListFilesInFolder(context.Background(), "f1")
	assert.ErrorIs(t, err, apierrors.ErrValidation)
}

func TestListFolders_ExcludesFiles(t *testing.T) {
	repo := newFakeRepository()
	repo.folder("a", "A", fakeRootID)
	repo.file("f1", "a.txt", fakeRootID)
	repo.folder("b", "B", fakeRootID)

	folders, err := newTestService(t, repo).ListFolders(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, folders, 2)
	assert.Equal(t, "A", folders[0].Name)
	assert.Equal(t, "B", folders[1].Name)
	for _, f := range folders {
		assert.True(t, f.IsFolder())
	}
	assert.Contains(t, repo.queries[0], "'root' in parents")
}

func TestListFolders_DefaultFolder(t *testing.T) {
	repo := newFakeRepository()
	repo.folder("proj", "Project", fakeRootID)
	repo.folder("x", "X", "proj")
	repo.folder("y", "Y", fakeRootID)

	s := newTestService(t, repo, WithFolderURL("https://drive.google.com/drive/folders/proj"))

	folders, err := s.ListFolders(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "X", folders[0].Name)

	// An explicit parent wins over the default folder.
	folders, err = s.ListFolders(context.Background(), fakeRootID)
	require.NoError(t, err)
	assert.Len(t, folders, 2)
}

func TestUploadFile(t *testing.T) {
	repo := newFakeRepository()
	repo.folder("dest", "Dest", fakeRootID)
	path := writeLocalFile(t, "report.csv", "a,b\n1,2\n")

	info, err := newTestService(t, repo).UploadFile(context.Background(), path, "Report", "dest")
	require.NoError(t, err)

	assert.Equal(t, "Report", info.Name)
	assert.Equal(t, []string{"dest"}, info.Parents)
	assert.Equal(t, int64(8), info.Size)
	assert.Equal(t, "a,b\n1,2\n", string(repo.uploads[info.ID]))
}

func TestUploadFile_DefaultsNameAndParent(t *testing.T) {
	repo := newFakeRepository()
	path := writeLocalFile(t, "notes.txt", "hi")

	info, err := newTestService(t, repo).UploadFile(context.Background(), path, "", "")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", info.Name)
	assert.Equal(t, []string{rootFolderID}, info.Parents)

	s := newTestService(t, repo, WithFolderURL("https://drive.google.com/drive/u/1/folders/proj"))
	info, err = s.UploadFile(context.Background(), path, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"proj"}, info.Parents)
}

func TestUploadFile_MissingLocalFile(t *testing.T) {
	repo := newFakeRepository()

	_, err := newTestService(t, repo).UploadFile(context.Background(), filepath.Join(t.TempDir(), "nope"), "x", "")
	assert.ErrorIs(t, err, apierrors.ErrLocalIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, repo.calls, "remote service must not be contacted")
}

func TestUploadFile_Directory(t *testing.T) {
	repo := newFakeRepository()

	_, err := newTestService(t, repo).UploadFile(context.Background(), t.TempDir(), "x", "")
	assert.ErrorIs(t, err, apierrors.ErrLocalIO)
	assert.Zero(t, repo.calls)
}

func TestUploadFile_Rejected(t *testing.T) {
	repo := newFakeRepository()
	repo.createErr = apierrors.New(apierrors.ErrRemote, "quota exceeded", nil)

	_, err := newTestService(t, repo).UploadFile(context.Background(), writeLocalFile(t, "a", "a"), "a", "")
	assert.ErrorIs(t, err, apierrors.ErrRemote)
}

func TestCreateFolder_NotIdempotent(t *testing.T) {
	repo := newFakeRepository()
	s := newTestService(t, repo)

	first, err := s.CreateFolder(context.Background(), "Reports", "")
	require.NoError(t, err)
	second, err := s.CreateFolder(context.Background(), "Reports", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Name, second.Name)
	assert.True(t, first.IsFolder())
	assert.True(t, second.IsFolder())
	assert.Equal(t, []string{rootFolderID}, first.Parents)
}

func TestCreateFolder_EmptyName(t *testing.T) {
	_, err := newTestService(t, newFakeRepository()).CreateFolder(context.Background(), "", "")
	assert.ErrorIs(t, err, apierrors.ErrValidation)
}

func TestGetFileMetadata(t *testing.T) {
	repo := newFakeRepository()
	repo.file("f1", "a.txt", fakeRootID)
	s := newTestService(t, repo)

	f, err := s.GetFileMetadata(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", f.Name)

	_, err = s.GetFileMetadata(context.Background(), "missing")
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestGetFolderPath(t *testing.T) {
	repo := newFakeRepository()
	repo.folder("orphan", "Orphan", "")
	repo.folder("a", "A", "")
	repo.folder("b", "B", "a")
	repo.folder("c", "C", "b")
	repo.folder("proj", "Project", fakeRootID)

	tests := []struct {
		name     string
		folderID string
		opts     []Option
		want     string
	}{
		{"no parent", "orphan", nil, "Orphan"},
		{"chain", "c", nil, "A/B/C"},
		{"under my drive", "proj", nil, "My Drive/Project"},
		{"root alias", "root", nil, "My Drive"},
		{"empty is root", "", nil, "My Drive"},
		{"custom separator", "c", []Option{WithPathSeparator(" > ")}, "A > B > C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestService(t, repo, tt.opts...).GetFolderPath(context.Background(), tt.folderID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetFolderPath_SharedDrive(t *testing.T) {
	repo := newFakeRepository()
	repo.put(&drive.File{Id: "0AteamDrive", Name: "Team", MimeType: mimeTypeFolder, DriveId: "0AteamDrive"})
	sub := repo.folder("sub", "Sub", "0AteamDrive")
	sub.DriveId = "0AteamDrive"
	deep := repo.folder("deep", "Deep", "sub")
	deep.DriveId = "0AteamDrive"

	s := newTestService(t, repo)

	got, err := s.GetFolderPath(context.Background(), "deep")
	require.NoError(t, err)
	assert.Equal(t, "Shared Drive: Team/Sub/Deep", got)

	got, err = s.GetFolderPath(context.Background(), "0AteamDrive")
	require.NoError(t, err)
	assert.Equal(t, "Shared Drive: Team", got)
}

func TestGetFolderPath_OrphanInSharedDriveNotLabelled(t *testing.T) {
	repo := newFakeRepository()
	f := repo.folder("lone", "Lone", "")
	f.DriveId = "0AotherDrive"

	got, err := newTestService(t, repo).GetFolderPath(context.Background(), "lone")
	require.NoError(t, err)
	assert.Equal(t, "Lone", got)
}

func TestGetFolderPath_BrokenChain(t *testing.T) {
	repo := newFakeRepository()
	repo.folder("b", "B", "gone")

	_, err := newTestService(t, repo).GetFolderPath(context.Background(), "b")
	assert.ErrorIs(t, err, apierrors.ErrNotFound)
}

func TestGetFolderPath_Cycle(t *testing.T) {
	repo := newFakeRepository()
	repo.folder("x", "X", "y")
	repo.folder("y", "Y", "x")

	_, err := newTestService(t, repo).GetFolderPath(context.Background(), "x")
	assert.ErrorIs(t, err, apierrors.ErrFolderCycle)
}

func TestGetFolderPath_TooDeep(t *testing.T) {
	repo := newFakeRepository()
	repo.folder("l0", "L0", "")
	repo.folder("l1", "L1", "l0")
	repo.folder("l2", "L2", "l1")
	repo.folder("l3", "L3", "l2")

	s := newTestService(t, repo, WithMaxPathDepth(3))
	_, err := s.GetFolderPath(context.Background(), "l3")
	assert.ErrorIs(t, err, apierrors.ErrFolderCycle)

	got, err := s.GetFolderPath(context.Background(), "l2")
	require.NoError(t, err)
	assert.Equal(t, "L0/L1/L2", got)
}

func TestEscapeQuery(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", "simple"},
		{"with'quote", "with\\'quote"},
		{"with\\backslash", "with\\\\backslash"},
		{"mixed'and\\special", "mixed\\'and\\\\special"},
	}

	for _, tt := range tests {
		result := escapeQuery(tt.input)
		if result != tt.expected {
			t.Errorf("escapeQuery(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
