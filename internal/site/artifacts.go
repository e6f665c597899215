package site

import (
	"os"
	"path/filepath"
)

// File names written into every dated output directory.
const (
	IndexFile   = "index.html"
	SitemapFile = "sitemap.xml"
	RobotsFile  = "robots.txt"
)

// Artifacts holds the generated files of one output directory.
type Artifacts struct {
	Index   []byte
	Sitemap []byte
	Robots  []byte
}

// BuildArtifacts renders page with tmpl and derives sitemap and robots
// from base.
func BuildArtifacts(tmpl Renderer, page *Page, base string) (*Artifacts, error) {
	index, err := tmpl.Render(page)
	if err != nil {
		return nil, err
	}
	sitemap, err := Sitemap(base, page.Date)
	if err != nil {
		return nil, err
	}
	robots, err := Robots(base, page.Date)
	if err != nil {
		return nil, err
	}
	return &Artifacts{Index: index, Sitemap: sitemap, Robots: []byte(robots)}, nil
}

// WriteDir creates dir and writes every artifact into it, returning the
// path of the index page.
func (a *Artifacts) WriteDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	files := []struct {
		name string
		data []byte
	}{
		{IndexFile, a.Index},
		{SitemapFile, a.Sitemap},
		{RobotsFile, a.Robots},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.data, 0o600); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, IndexFile), nil
}
