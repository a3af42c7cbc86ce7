package livereload

import (
	_ "embed"
	"net/http"
	"strings"
)

//go:embed client.js
var clientJS string

// ClientScript is the script that connects a page to the hub
var ClientScript = strings.Replace(clientJS, "__EVENTS__", EventsPath, 1)

// ServeScript serves ClientScript
func ServeScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte(ClientScript))
}
