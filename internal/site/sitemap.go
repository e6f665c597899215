package site

import (
	"encoding/xml"
	"net/url"
	"strings"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// URLFor resolves p against base. A base of "/" yields a root-relative
// path; anything else is treated as an absolute URL. Trailing slashes on p
// are kept.
func URLFor(base, p string) (string, error) {
	p = strings.TrimPrefix(p, "/")
	if base == "" || base == "/" {
		return "/" + p, nil
	}
	return url.JoinPath(base, p)
}

// Sitemap renders sitemap.xml for the page published under date.
func Sitemap(base, date string) ([]byte, error) {
	loc, err := URLFor(base, date+"/")
	if err != nil {
		return nil, err
	}
	set := urlSet{
		Xmlns: sitemapNamespace,
		URLs:  []sitemapURL{{Loc: loc, ChangeFreq: "weekly", Priority: "0.7"}},
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	return append(out, '\n'), nil
}

// Robots renders robots.txt pointing at the dated sitemap.
func Robots(base, date string) (string, error) {
	loc, err := URLFor(base, date+"/sitemap.xml")
	if err != nil {
		return "", err
	}
	return "User-agent: *\nAllow: /\nSitemap: " + loc + "\n", nil
}
