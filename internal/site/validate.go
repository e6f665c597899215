package site

import (
	"io"

	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
)

// ValidateHTML reports whether r can be parsed as an HTML document.
func ValidateHTML(r io.Reader) error {
	if _, err := html.Parse(r); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "generated HTML could not be parsed").Fatal().Build()
	}
	return nil
}
