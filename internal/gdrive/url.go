package gdrive

import (
	"fmt"
	"gsuitetool/internal/apierrors"
	"net/url"
	"regexp"
	"strings"
)

const folderURLHost = "drive.google.com"

// Matches /drive/folders/<id> and the account-scoped /drive/u/<n>/folders/<id>.
var folderPathPattern = regexp.MustCompile(`^/drive(?:/u/\d+)?/folders/([A-Za-z0-9_-]+)/?$`)

// URLToID extracts the folder ID from a Drive folder link such as
// https://drive.google.com/drive/folders/<id>?usp=sharing.
func URLToID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", apierrors.NewValidationError("unparsable folder url", err)
	}
	if u.Scheme != "https" || u.Host != folderURLHost {
		return "", apierrors.NewValidationError(fmt.Sprintf("not a drive folder url: %q", rawURL), nil)
	}

	m := folderPathPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return "", apierrors.NewValidationError(fmt.Sprintf("not a drive folder url: %q", rawURL), nil)
	}
	return m[1], nil
}
