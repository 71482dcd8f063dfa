// Package testutil holds helpers shared by HTTP-level tests.
package testutil

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

// MemoryDSN returns a shared-cache in-memory SQLite DSN unique to t.
func MemoryDSN(t *testing.T) string {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return "file:" + name + "?mode=memory&cache=shared"
}

// Jar is a minimal cookie jar for fiber's app.Test, which does not keep
// cookies between requests.
type Jar struct {
	cookies map[string]string
}

func NewJar() *Jar {
	return &Jar{cookies: make(map[string]string)}
}

// Apply adds the stored cookies to req.
func (j *Jar) Apply(req *http.Request) {
	for name, value := range j.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

// Update stores cookies set by resp and forgets the ones it expires.
func (j *Jar) Update(resp *http.Response) {
	for _, c := range resp.Cookies() {
		expired := c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now()))
		if c.Value == "" || expired {
			delete(j.cookies, c.Name)
			continue
		}
		j.cookies[c.Name] = c.Value
	}
}

func (j *Jar) Get(name string) string {
	return j.cookies[name]
}

func (j *Jar) Set(name, value string) {
	j.cookies[name] = value
}
