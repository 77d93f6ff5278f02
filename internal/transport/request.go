package transport

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
)

// PageURL builds the URL for a listing page. A {page} placeholder in base is
// replaced; otherwise the page number is set as the page query parameter.
func PageURL(base string, page int) (string, error) {
	n := strconv.Itoa(page)
	if strings.Contains(base, constants.PagePlaceholder) {
		return strings.ReplaceAll(base, constants.PagePlaceholder, n), nil
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", errors.WrapValidation("source.url", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.NewValidationError("source.url", base, "must be an absolute URL")
	}
	q := u.Query()
	q.Set(constants.PageQueryParam, n)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ResolveHref makes href absolute against the page it was found on. Empty or
// unparsable hrefs are returned unchanged.
func ResolveHref(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return href
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
