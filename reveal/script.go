package reveal

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
	"time"
)

//go:embed reveal.js.tmpl
var scriptSrc string

var scriptTmpl = template.Must(template.New("reveal.js").Parse(scriptSrc))

// Options configure the client script
type Options struct {
	Section  string        // Class marking animated sections
	Class    string        // Class added to a revealed section's children
	Throttle time.Duration // Minimum time between recomputes
}

// Script renders the client script
func Script(opts Options) ([]byte, error) {
	if opts.Section == "" || opts.Class == "" {
		return nil, fmt.Errorf("reveal: section and class are required")
	}

	if opts.Throttle < 0 {
		return nil, fmt.Errorf("reveal: negative throttle %s", opts.Throttle)
	}

	var b bytes.Buffer
	err := scriptTmpl.Execute(&b, struct {
		Section string
		Class   string
		Wait    int64
		Factor  float64
	}{
		Section: opts.Section,
		Class:   opts.Class,
		Wait:    opts.Throttle.Milliseconds(),
		Factor:  Factor,
	})
	if err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
