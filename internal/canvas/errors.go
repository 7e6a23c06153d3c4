package canvas

import (
	"fmt"
	"net/http"

	"github.com/imroc/req/v3"
)

// APIError represents an error response from the Canvas API.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("canvas api error: %d - %s", e.Status, e.Message)
}

// Retryable reports whether the failure is transient: rate limits, timeouts
// and server-side errors are worth retrying, client errors are not.
func (e *APIError) Retryable() bool {
	switch {
	case e.Status == http.StatusTooManyRequests:
		return true
	case e.Status == http.StatusRequestTimeout:
		return true
	case e.Status >= 500:
		return true
	default:
		return false
	}
}

// canvasErrorBody covers the two error shapes Canvas responds with:
// {"message": "..."} and {"errors": [{"message": "..."}]}.
type canvasErrorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// handleAPIError folds a request error or API error state into a single error.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s: %w", operation, requestErr)
	}

	// got a response, but the api returned an error
	if resp.IsErrorState() {
		apiErr := &APIError{Status: resp.StatusCode, Message: "request failed"}
		var body canvasErrorBody
		if err := resp.UnmarshalJson(&body); err == nil {
			if body.Message != "" {
				apiErr.Message = body.Message
			} else if len(body.Errors) > 0 && body.Errors[0].Message != "" {
				apiErr.Message = body.Errors[0].Message
			}
		}
		return fmt.Errorf("%s: %w", operation, apiErr)
	}

	return nil
}
