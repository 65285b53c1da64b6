package site

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	routeGroupName = "site"
	routePost      = "post"
	routeTag       = "tag"
)

// DefaultRouteConfig returns the route table used when the host application
// does not supply one: posts under /posts/<slug>/ and tags under /tags/<slug>/.
func DefaultRouteConfig(baseURL string) *urlkit.Config {
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    routeGroupName,
				BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
				Paths: map[string]string{
					routePost: "/posts/:slug",
					routeTag:  "/tags/:slug",
				},
			},
		},
	}
}

// Permalinks resolves post and tag routes through a go-urlkit route manager.
type Permalinks struct {
	group *urlkit.Group
	base  string
}

// NewPermalinks builds a resolver from the supplied route configuration. A
// nil config falls back to DefaultRouteConfig.
func NewPermalinks(baseURL string, cfg *urlkit.Config) (*Permalinks, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if cfg == nil {
		cfg = DefaultRouteConfig(base)
	}
	manager := urlkit.NewRouteManager(cfg)
	group, err := lookupRouteGroup(manager, routeGroupName)
	if err != nil {
		return nil, err
	}
	return &Permalinks{group: group, base: base}, nil
}

// Post returns the site-relative route for a post slug.
func (p *Permalinks) Post(slug string) (string, error) {
	return p.route(routePost, slug)
}

// Tag returns the site-relative route for a tag slug.
func (p *Permalinks) Tag(slug string) (string, error) {
	return p.route(routeTag, slug)
}

func (p *Permalinks) route(name, slug string) (string, error) {
	if p == nil || p.group == nil {
		return "", fmt.Errorf("site: route manager not configured")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", fmt.Errorf("site: route %q requires a slug", name)
	}
	builder, err := safeRouteBuilder(p.group, name)
	if err != nil {
		return "", err
	}
	builder.WithParam("slug", slug)
	url, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("site: build route %q for %q: %w", name, slug, err)
	}
	return normalizeRoute(strings.TrimPrefix(url, p.base)), nil
}

// normalizeRoute canonicalises a route as /segment/.../ with leading and
// trailing slashes so permalinks stay stable across builds.
func normalizeRoute(route string) string {
	route = strings.Trim(strings.TrimSpace(route), "/")
	if route == "" {
		return "/"
	}
	return "/" + route + "/"
}

// routeOutputPath maps a route to the file written for it, following the
// pretty-URL convention of a directory with an index.html inside.
func routeOutputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), "/")
	if clean == "" {
		return "index.html"
	}
	return path.Join(clean, "index.html")
}

func joinOutputPath(base string, rel string) string {
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(rel, "/")
	}
	return path.Join(strings.Trim(base, "/"), rel)
}

func pathDir(value string) string {
	dir := path.Dir(value)
	if dir == "." {
		return ""
	}
	return dir
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}

func lookupRouteGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("site: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("site: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func safeRouteBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("site: route %q not registered", route)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
