package httpds

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// LocalName derives a filesystem-safe file name for a downloaded URL. The
// last path segment is kept, extension included, so the loader can pick a
// strategy from it. URLs without a usable segment get a stable hash name
// with no extension.
func LocalName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err == nil {
		base := path.Base(u.Path)
		base = strings.Trim(unsafeChars.ReplaceAllString(base, "_"), "_")
		if base != "" && base != "." && base != "/" {
			return base
		}
	}
	return "download-" + strconv.FormatUint(xxh3.HashString(rawURL), 16)
}
