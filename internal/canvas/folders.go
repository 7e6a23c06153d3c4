package canvas

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// courseFilesRoot is the FullName of every course's root folder.
const courseFilesRoot = "course files"

// ListCourseFolders returns every folder in the course, walking pagination.
func (c *Client) ListCourseFolders(ctx context.Context, courseID int64) ([]*Folder, error) {
	var all []*Folder
	for page := 1; ; page++ {
		var folders []*Folder
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("per_page", strconv.Itoa(perPage)).
			SetQueryParam("page", strconv.Itoa(page)).
			SetSuccessResult(&folders).
			Get(fmt.Sprintf("/courses/%d/folders", courseID))
		if err := handleAPIError(resp, err, "list course folders"); err != nil {
			return nil, err
		}
		all = append(all, folders...)
		if len(folders) < perPage {
			return all, nil
		}
	}
}

// FolderRelPath converts a folder's FullName into a slash-separated path
// relative to the course files root. The root itself maps to ".".
func FolderRelPath(f *Folder) string {
	rel := strings.TrimPrefix(f.FullName, courseFilesRoot)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return "."
	}
	return rel
}

// FolderPathIndex maps folder ids to their relative paths for resolving file
// locations in the course tree.
func FolderPathIndex(folders []*Folder) map[int64]string {
	index := make(map[int64]string, len(folders))
	for _, f := range folders {
		index[f.ID] = FolderRelPath(f)
	}
	return index
}
