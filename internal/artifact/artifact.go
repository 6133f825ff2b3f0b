// Package artifact stores generated documents and serves them back by key.
package artifact

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	ErrNotFound   = errors.New("artifact_not_found")
	ErrInvalidKey = errors.New("invalid_artifact_key")
)

// Object is a stored document.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

type Store interface {
	// Put writes data under key and returns the URL it is downloadable from.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Get(ctx context.Context, key string) (Object, error)
}

// Key builds "<kind>s/<customer-slug>/<number>.pdf". Documents without a
// number get a random name so ad hoc renders never overwrite each other.
func Key(kind, customer, number string) string {
	folder := slug.Make(customer)
	if folder == "" {
		folder = "unassigned"
	}
	name := strings.TrimSpace(number)
	if name == "" {
		name = uuid.NewString()
	}
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	return strings.ToLower(strings.TrimSpace(kind)) + "s/" + folder + "/" + name + ".pdf"
}

// CleanKey normalizes a key taken from a request path and rejects keys that
// would escape the store root.
func CleanKey(raw string) (string, error) {
	key := strings.TrimPrefix(strings.TrimSpace(raw), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
