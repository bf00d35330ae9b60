// Package model holds the result types shared by the app and its front ends.
package model

// FileChange represents a single planned change to a file.
type FileChange struct {
	Path   string
	Before []byte
	After  []byte
}

// Summary holds the results of an operation for display.
type Summary struct {
	Modified  []string
	Unchanged []string
	Failed    []string
	Message   string
}
