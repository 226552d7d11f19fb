// Package storage holds what the image backends share.
package storage

import (
	"errors"
	"io"
	"strings"
	"time"
)

var ErrObjectNotFound = errors.New("storage: object not found")

// Object is an open image ready to be streamed to a client.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// CleanKey turns a request path into an object key, rejecting anything
// that tries to leave the image root.
func CleanKey(raw string) (string, bool) {
	key := strings.TrimLeft(raw, "/")
	if key == "" {
		return "", false
	}
	for _, part := range strings.Split(strings.ReplaceAll(key, `\`, "/"), "/") {
		if part == "" || part == "." || part == ".." {
			return "", false
		}
	}
	return key, true
}
