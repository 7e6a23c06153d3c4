package canvas

import (
	"context"
	"fmt"
	"strconv"
)

const perPage = 100

// GetCourse fetches a single course.
func (c *Client) GetCourse(ctx context.Context, courseID int64) (*Course, error) {
	var course Course
	resp, err := c.http.R().
		SetContext(ctx).
		SetSuccessResult(&course).
		Get(fmt.Sprintf("/courses/%d", courseID))
	if err := handleAPIError(resp, err, "get course"); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListCourseFiles returns every file in the course, walking pagination.
func (c *Client) ListCourseFiles(ctx context.Context, courseID int64) ([]*File, error) {
	var all []*File
	for page := 1; ; page++ {
		var files []*File
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("per_page", strconv.Itoa(perPage)).
			SetQueryParam("page", strconv.Itoa(page)).
			SetSuccessResult(&files).
			Get(fmt.Sprintf("/courses/%d/files", courseID))
		if err := handleAPIError(resp, err, "list course files"); err != nil {
			return nil, err
		}
		all = append(all, files...)
		if len(files) < perPage {
			return all, nil
		}
	}
}

// GetFile fetches a single file's metadata, including a fresh download URL.
func (c *Client) GetFile(ctx context.Context, fileID int64) (*File, error) {
	var file File
	resp, err := c.http.R().
		SetContext(ctx).
		SetSuccessResult(&file).
		Get(fmt.Sprintf("/files/%d", fileID))
	if err := handleAPIError(resp, err, "get file"); err != nil {
		return nil, err
	}
	return &file, nil
}

// DownloadFile fetches file content from a pre-signed download URL.
func (c *Client) DownloadFile(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.raw.R().
		SetContext(ctx).
		Get(url)
	if err := handleAPIError(resp, err, "download file"); err != nil {
		return nil, err
	}
	return resp.Bytes(), nil
}

// DeleteFile removes a file from the course.
func (c *Client) DeleteFile(ctx context.Context, fileID int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/files/%d", fileID))
	return handleAPIError(resp, err, "delete file")
}

// UploadCourseFile pushes a local file into the course via the Canvas
// two-step upload handshake: request an upload ticket, then POST the bytes to
// the returned URL. folderPath is the slash-separated path below the course
// files root; existing files at the same path are overwritten.
func (c *Client) UploadCourseFile(ctx context.Context, courseID int64, folderPath, name, absPath string, size int64) (*File, error) {
	var ticket uploadTicket
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"name":               name,
			"size":               strconv.FormatInt(size, 10),
			"parent_folder_path": folderPath,
			"on_duplicate":       "overwrite",
		}).
		SetSuccessResult(&ticket).
		Post(fmt.Sprintf("/courses/%d/files", courseID))
	if err := handleAPIError(resp, err, "request upload ticket"); err != nil {
		return nil, err
	}
	if ticket.UploadURL == "" {
		return nil, fmt.Errorf("request upload ticket: empty upload url")
	}

	return c.completeUpload(ctx, &ticket, absPath)
}

// completeUpload performs the second phase of the handshake. The file field
// must come after the ticket params in the multipart body.
func (c *Client) completeUpload(ctx context.Context, ticket *uploadTicket, absPath string) (*File, error) {
	var file File
	resp, err := c.raw.R().
		SetContext(ctx).
		SetFormData(ticket.UploadParams).
		SetFile("file", absPath).
		SetSuccessResult(&file).
		Post(ticket.UploadURL)
	if err := handleAPIError(resp, err, "upload file content"); err != nil {
		return nil, err
	}
	if file.ID == 0 {
		return nil, fmt.Errorf("upload file content: no file object in response")
	}
	return &file, nil
}
