package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID derives the stable identity for a post slug. Rebuilding the same
// corpus always yields the same page IDs so incremental manifests stay valid.
func PostUUID(slug string) uuid.UUID {
	return UUID("go-press:post:" + strings.ToLower(strings.TrimSpace(slug)))
}

// TagUUID derives the stable identity of a tag listing page.
func TagUUID(tag string) uuid.UUID {
	return UUID("go-press:tag:" + strings.ToLower(strings.TrimSpace(tag)))
}

// ThemeUUID derives the stable identity of a theme directory.
func ThemeUUID(themePath string) uuid.UUID {
	return UUID("go-press:theme:" + strings.TrimSpace(themePath))
}

// IndexUUID identifies the site index page.
func IndexUUID() uuid.UUID {
	return UUID("go-press:index")
}
