// Package datasource opens the raw input of a run. Local paths are read
// through file.Local; http(s) inputs are downloaded by httpds first.
package datasource

import (
	"context"
	"io"
	"strings"
)

type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// IsRemote reports whether input names an http or https URL.
func IsRemote(input string) bool {
	s := strings.ToLower(input)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
