package provider

import "fmt"

// NotFoundError means no registered source handles the URL.
// The resolver treats it as a cue to fall back to search.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no source found for %s", e.URL)
}

// RejectedError means the host is on the deny-list. It is never retried.
type RejectedError struct {
	Host   string
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s is rejected: %s", e.Host, e.Reason)
}
