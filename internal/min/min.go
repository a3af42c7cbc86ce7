// Package min is the shared minifier
package min

import (
	"io"

	"github.com/tdewolff/minify"
	min_css "github.com/tdewolff/minify/css"
	min_html "github.com/tdewolff/minify/html"
	min_js "github.com/tdewolff/minify/js"
)

// Media types understood by the minifier
const (
	CSS  = "text/css"
	HTML = "text/html"
	JS   = "application/javascript"
)

var min = minify.New()

func init() {
	min.AddFunc(CSS, min_css.Minify)
	min.AddFunc(HTML, min_html.Minify)
	min.AddFunc(JS, min_js.Minify)
	min.AddFunc("text/javascript", min_js.Minify)
}

// Minify minifies everything in r into w
func Minify(mime string, w io.Writer, r io.Reader) error {
	return min.Minify(mime, w, r)
}

// Bytes minifies b
func Bytes(mime string, b []byte) ([]byte, error) {
	return min.Bytes(mime, b)
}
