package gdrive

import (
	"context"
	"fmt"
	"gsuitetool/internal/apierrors"
	"io"
	"regexp"
	"sync"

	"google.golang.org/api/drive/v3"
)

const fakeRootID = "root-0"

var parentInQuery = regexp.MustCompile(`'([^']*)' in parents`)

// fakeRepository is an in-memory Drive. List ignores mime-type clauses on purpose so the
// Service's own filtering is exercised.
type fakeRepository struct {
	mu      sync.Mutex
	files   map[string]*drive.File
	order   []string
	nextID  int
	calls   int
	queries []string
	uploads map[string][]byte

	createErr error
}

func newFakeRepository() *fakeRepository {
	r := &fakeRepository{
		files:   map[string]*drive.File{},
		uploads: map[string][]byte{},
	}
	r.put(&drive.File{Id: fakeRootID, Name: "My Drive", MimeType: mimeTypeFolder})
	return r
}

func (r *fakeRepository) put(f *drive.File) *drive.File {
	r.files[f.Id] = f
	r.order = append(r.order, f.Id)
	return f
}

func (r *fakeRepository) folder(id, name, parent string) *drive.File {
	f := &drive.File{Id: id, Name: name, MimeType: mimeTypeFolder}
	if parent != "" {
		f.Parents = []string{parent}
	}
	return r.put(f)
}

func (r *fakeRepository) file(id, name, parent string) *drive.File {
	return r.put(&drive.File{Id: id, Name: name, MimeType: "text/plain", Parents: []string{parent}, Size: 10})
}

func (r *fakeRepository) resolve(id string) string {
	if id == rootFolderID {
		return fakeRootID
	}
	return id
}

func (r *fakeRepository) Get(_ context.Context, fileID string, _ string) (*drive.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	f, ok := r.files[r.resolve(fileID)]
	if !ok {
		return nil, apierrors.New(apierrors.ErrNotFound, fmt.Sprintf("failed to get file %s", fileID), nil)
	}
	return f, nil
}

func (r *fakeRepository) List(_ context.Context, query string) ([]*drive.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.queries = append(r.queries, query)

	m := parentInQuery.FindStringSubmatch(query)
	if m == nil {
		return nil, fmt.Errorf("query without parent: %s", query)
	}
	parent := r.resolve(m[1])

	var out []*drive.File
	for _, id := range r.order {
		f := r.files[id]
		for _, p := range f.Parents {
			if r.resolve(p) == parent {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRepository) Create(_ context.Context, file *drive.File, media io.Reader) (*drive.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if r.createErr != nil {
		return nil, r.createErr
	}

	r.nextID++
	created := *file
	created.Id = fmt.Sprintf("id-%d", r.nextID)
	if created.MimeType == "" {
		created.MimeType = "application/octet-stream"
	}
	if media != nil {
		data, err := io.ReadAll(media)
		if err != nil {
			return nil, err
		}
		r.uploads[created.Id] = data
		created.Size = int64(len(data))
	}
	return r.put(&created), nil
}
