package canvas

import (
	"fmt"
	"time"
)

// Course is a remote Canvas course.
type Course struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code"`
}

// File is a file object in the Canvas API.
type File struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	FolderID    int64     `json:"folder_id"`
	DisplayName string    `json:"display_name"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content-type"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// Fingerprint derives an opaque version tag for change detection. Canvas does
// not expose content checksums, so uuid + updated_at + size stands in: any
// content change rolls updated_at, and uuid survives renames.
func (f *File) Fingerprint() string {
	return fmt.Sprintf("%s@%s@%d", f.UUID, f.UpdatedAt.UTC().Format(time.RFC3339), f.Size)
}

// Folder is a folder object in the Canvas API. The root course folder has
// FullName "course files".
type Folder struct {
	ID             int64  `json:"id"`
	ParentFolderID int64  `json:"parent_folder_id"`
	Name           string `json:"name"`
	FullName       string `json:"full_name"`
	FilesCount     int    `json:"files_count"`
	FoldersCount   int    `json:"folders_count"`
}

// Assignment is an assignment object in the Canvas API.
type Assignment struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	DueAt           *time.Time `json:"due_at"`
	SubmissionTypes []string   `json:"submission_types"`
}

// Submission is the result of submitting an assignment.
type Submission struct {
	ID             int64      `json:"id"`
	AssignmentID   int64      `json:"assignment_id"`
	SubmissionType string     `json:"submission_type"`
	SubmittedAt    *time.Time `json:"submitted_at"`
	Attempt        int        `json:"attempt"`
}

// uploadTicket is the first-phase response of the Canvas file upload
// handshake: a URL plus opaque params to POST the bytes to.
type uploadTicket struct {
	UploadURL    string            `json:"upload_url"`
	UploadParams map[string]string `json:"upload_params"`
}
