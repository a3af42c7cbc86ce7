package livereload

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Tag is inserted into every HTML page served through InjectScript
const Tag = `<script async src="` + ScriptPath + `"></script>`

// InjectScript wraps a handler so that the HTML pages it serves load the live
// reload client
func InjectScript(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isPage(r) {
			next.ServeHTTP(w, r)
			return
		}

		// Always get a full body to inject into
		r.Header.Del("If-Modified-Since")
		r.Header.Del("If-None-Match")
		r.Header.Del("Range")

		bw := &bufferedWriter{
			header: http.Header{},
			code:   http.StatusOK,
		}
		next.ServeHTTP(bw, r)

		body := bw.body.Bytes()
		if isHTML(bw.header, body) {
			body = Into(body)
			bw.header.Set("Content-Length", strconv.Itoa(len(body)))
		}

		for k, vs := range bw.header {
			w.Header()[k] = vs
		}

		w.WriteHeader(bw.code)
		w.Write(body)
	})
}

// Into inserts Tag before the document's closing body tag, or at the end if
// there isn't one
func Into(doc []byte) []byte {
	at := bodyEnd(doc)
	if at < 0 {
		at = len(doc)
	}

	out := make([]byte, 0, len(doc)+len(Tag))
	out = append(out, doc[:at]...)
	out = append(out, Tag...)
	out = append(out, doc[at:]...)

	return out
}

// bodyEnd finds the offset of the last </body>
func bodyEnd(doc []byte) int {
	z := html.NewTokenizer(bytes.NewReader(doc))

	off := 0
	at := -1

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() == io.EOF {
				return at
			}

			return -1
		}

		if tt == html.EndTagToken {
			name, _ := z.TagName()
			if string(name) == "body" {
				at = off
			}
		}

		off += len(z.Raw())
	}
}

func isPage(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}

	p := r.URL.Path
	return p == "" || strings.HasSuffix(p, "/") || strings.HasSuffix(p, ".html")
}

func isHTML(h http.Header, body []byte) bool {
	ct := h.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(body)
	}

	return strings.HasPrefix(ct, "text/html")
}

type bufferedWriter struct {
	header http.Header
	code   int
	body   bytes.Buffer
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(code int) {
	bw.code = code
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	return bw.body.Write(b)
}
