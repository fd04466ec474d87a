package search

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	paramQuery   = "query"
	paramPerPage = "per_page"
)

// BuildURL composes the search endpoint from a base URL, a search term and a
// page size. Spaces in the term are encoded as %20. perPage <= 0 omits
// per_page so the API default applies. Other query parameters already present
// on base are kept ahead of the search parameters.
func BuildURL(base, query string, perPage int) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", errors.New("search base url is empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse search base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("search base url %q must be http or https", base)
	}
	if u.Host == "" {
		return "", fmt.Errorf("search base url %q has no host", base)
	}
	if strings.TrimSpace(query) == "" {
		return "", errors.New("search query is empty")
	}

	existing := u.Query()
	existing.Del(paramQuery)
	existing.Del(paramPerPage)

	parts := make([]string, 0, 3)
	if enc := existing.Encode(); enc != "" {
		parts = append(parts, enc)
	}
	parts = append(parts, paramQuery+"="+escapeQueryValue(query))
	if perPage > 0 {
		parts = append(parts, paramPerPage+"="+strconv.Itoa(perPage))
	}
	u.RawQuery = strings.Join(parts, "&")

	return u.String(), nil
}

// escapeQueryValue is url.QueryEscape with %20 for spaces. QueryEscape turns
// a literal '+' into %2B, so every remaining '+' stands for a space.
func escapeQueryValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
