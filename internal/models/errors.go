package models

import "fmt"

// AuthenticationError is returned when the identity endpoint does not hand out
// a bearer token.
type AuthenticationError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("iam token request failed: %v", e.Err)
	}
	return fmt.Sprintf("iam token request failed: status %d: %s", e.StatusCode, e.Body)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// IndexBuildError is returned when the vector index could not be built.
type IndexBuildError struct {
	Stage string
	Path  string
	Err   error
}

func (e *IndexBuildError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("index build failed (%s %s): %v", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("index build failed (%s): %v", e.Stage, e.Err)
}

func (e *IndexBuildError) Unwrap() error { return e.Err }

// RemoteAPIError is returned when the chat endpoint answers with anything
// other than 200 or with a body that is not JSON.
type RemoteAPIError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("IBM Watson API error: %v", e.Err)
	}
	return fmt.Sprintf("IBM Watson API error: status %d: %s", e.StatusCode, e.Body)
}

func (e *RemoteAPIError) Unwrap() error { return e.Err }
