package canvas

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
)

// ListAssignments returns every assignment in the course, walking pagination.
func (c *Client) ListAssignments(ctx context.Context, courseID int64) ([]*Assignment, error) {
	var all []*Assignment
	for page := 1; ; page++ {
		var assignments []*Assignment
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("per_page", strconv.Itoa(perPage)).
			SetQueryParam("page", strconv.Itoa(page)).
			SetSuccessResult(&assignments).
			Get(fmt.Sprintf("/courses/%d/assignments", courseID))
		if err := handleAPIError(resp, err, "list assignments"); err != nil {
			return nil, err
		}
		all = append(all, assignments...)
		if len(assignments) < perPage {
			return all, nil
		}
	}
}

// UploadSubmissionFile uploads a local file into the user's submission area
// for an assignment and returns the created file.
func (c *Client) UploadSubmissionFile(ctx context.Context, courseID, assignmentID int64, absPath string, size int64) (*File, error) {
	var ticket uploadTicket
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"name": filepath.Base(absPath),
			"size": strconv.FormatInt(size, 10),
		}).
		SetSuccessResult(&ticket).
		Post(fmt.Sprintf("/courses/%d/assignments/%d/submissions/self/files", courseID, assignmentID))
	if err := handleAPIError(resp, err, "request submission upload ticket"); err != nil {
		return nil, err
	}
	if ticket.UploadURL == "" {
		return nil, fmt.Errorf("request submission upload ticket: empty upload url")
	}

	return c.completeUpload(ctx, &ticket, absPath)
}

// SubmitAssignment creates an online_upload submission from previously
// uploaded file ids.
func (c *Client) SubmitAssignment(ctx context.Context, courseID, assignmentID int64, fileIDs []int64) (*Submission, error) {
	form := url.Values{}
	form.Set("submission[submission_type]", "online_upload")
	for _, id := range fileIDs {
		form.Add("submission[file_ids][]", strconv.FormatInt(id, 10))
	}

	var submission Submission
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		SetSuccessResult(&submission).
		Post(fmt.Sprintf("/courses/%d/assignments/%d/submissions", courseID, assignmentID))
	if err := handleAPIError(resp, err, "submit assignment"); err != nil {
		return nil, err
	}
	return &submission, nil
}
