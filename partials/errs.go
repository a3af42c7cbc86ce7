package partials

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thatguystone/cog/stringc"
	"github.com/thatguystone/siteflow/internal"
)

// Error maps each template that failed to compile to why
type Error map[string]error

func (err Error) getError() error {
	if len(err) == 0 {
		return nil
	}

	return err
}

func (err Error) Error() string {
	var paths []string
	for path := range err {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("the following templates have errors:\n")

	for _, path := range paths {
		fmt.Fprintf(&b, internal.Indent+"%q\n", path)
		b.WriteString(stringc.Indent(err[path].Error(), internal.Indent+internal.Indent))
		b.WriteString("\n")
	}

	return b.String()
}
