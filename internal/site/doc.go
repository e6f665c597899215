// Package site turns generated citations into the files of one dated
// output directory: the HTML page, sitemap.xml, robots.txt and a copy of
// the static assets.
package site
