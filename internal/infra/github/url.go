package github

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/appforge/clientportal/internal/pkg/apperr"
)

// RepoRef names a repository on the provider.
type RepoRef struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

func (r RepoRef) String() string { return r.Owner + "/" + r.Repo }

// ParseRepositoryURL accepts http(s)://<webHost>/<owner>/<repo>[/...] and
// returns the first two path segments. Anything else is
// apperr.ErrInvalidRepositoryURL.
func ParseRepositoryURL(raw, webHost string) (RepoRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return RepoRef{}, fmt.Errorf("%w: %v", apperr.ErrInvalidRepositoryURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return RepoRef{}, fmt.Errorf("%w: unsupported scheme %q", apperr.ErrInvalidRepositoryURL, u.Scheme)
	}
	if !strings.EqualFold(u.Hostname(), webHost) {
		return RepoRef{}, fmt.Errorf("%w: host %q is not %s", apperr.ErrInvalidRepositoryURL, u.Hostname(), webHost)
	}

	parts := make([]string, 0, 2)
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return RepoRef{}, fmt.Errorf("%w: missing owner or repository", apperr.ErrInvalidRepositoryURL)
	}
	return RepoRef{Owner: parts[0], Repo: strings.TrimSuffix(parts[1], ".git")}, nil
}
