// Package identity derives stable identities for raw listings.
//
// The link path is the preferred anchor because it survives renames: the
// identity is the final segment of the normalized path. Listings rendered
// without a usable link fall back to a slug of their display name, prefixed
// with "name-" so the two forms never collide. A listing with neither yields
// an empty identity and must be discarded.
package identity

import (
	"net/url"
	"strings"

	"github.com/agentstation/shelf/pkg/constants"
)

// Resolve returns the identity for a listing, or "" when none can be derived.
func Resolve(name, href string) string {
	if segs := segments(NormalizeHref(href)); len(segs) > 0 {
		return segs[len(segs)-1]
	}
	if slug := Slugify(name); slug != "" {
		return constants.NameIDPrefix + slug
	}
	return ""
}

// NormalizeHref reduces an href to a clean absolute path: whitespace trimmed,
// query and fragment dropped, scheme and host removed, trailing slashes
// removed. Empty, unparsable, or path-less input yields "".
func NormalizeHref(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	segs := segments(u.Path)
	if len(segs) == 0 {
		return ""
	}
	return "/" + strings.Join(segs, "/")
}

// Category returns the first path segment of href, or "".
func Category(href string) string {
	if segs := segments(NormalizeHref(href)); len(segs) > 0 {
		return segs[0]
	}
	return ""
}

// IsNameDerived reports whether id was produced from a display name.
func IsNameDerived(id string) bool {
	return strings.HasPrefix(id, constants.NameIDPrefix) && len(id) > len(constants.NameIDPrefix)
}

// segments splits a path into its non-empty segments.
func segments(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
