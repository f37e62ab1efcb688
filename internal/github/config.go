package github

import (
	"fmt"
	"strings"
	"time"
)

// Config locates the synced file and tunes the HTTP client.
type Config struct {
	APIURL  string
	Owner   string
	Repo    string
	Branch  string
	Path    string
	Timeout time.Duration
}

// DefaultConfig returns the settings for api.github.com. Owner and Repo
// have no default.
func DefaultConfig() Config {
	return Config{
		APIURL:  "https://api.github.com",
		Repo:    "polymath-data",
		Branch:  "main",
		Path:    "polymath.json",
		Timeout: 15 * time.Second,
	}
}

// Configured reports whether the config names a repository to sync with.
func (c Config) Configured() bool {
	return c.Owner != "" && c.Repo != ""
}

func (c Config) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		strings.TrimRight(c.APIURL, "/"), c.Owner, c.Repo, strings.TrimLeft(c.Path, "/"))
}

func (c Config) userURL() string {
	return strings.TrimRight(c.APIURL, "/") + "/user"
}
