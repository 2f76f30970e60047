package github

import (
	"fmt"
	"regexp"
	"strings"
)

// Accepts:
//
//	https://github.com/owner/repo
//	https://github.com/owner/repo/
//	https://github.com/owner/repo.git
//	https://github.com/owner/repo/tree/branch
//	http variant of each
var urlRE = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/?#]+?)(?:\.git)?(?:/.*)?$`)

// ParseRepoURL extracts (owner, repo) from a GitHub repository URL.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	m := urlRE.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", "", fmt.Errorf("%w: %q (expected https://github.com/<owner>/<repo>)", ErrInvalidURL, raw)
	}
	return m[1], m[2], nil
}
