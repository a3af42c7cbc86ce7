package prefix

import (
	"strings"
	"testing"

	"github.com/thatguystone/cog/check"
)

func mustNew(c *check.C, browsers ...string) *Prefixer {
	p, err := New(browsers)
	c.Must.Nil(err)
	return p
}

func prefix(c *check.C, p *Prefixer, in string) string {
	out, err := p.Prefix([]byte(in))
	c.Must.Nil(err)
	return string(out)
}

func TestPrefixTransform(t *testing.T) {
	c := check.New(t)

	p := mustNew(c, "last 15 versions")
	c.Equal(
		prefix(c, p, `.a{transform:rotate(1deg)}`),
		`.a{-webkit-transform:rotate(1deg);-moz-transform:rotate(1deg);`+
			`-ms-transform:rotate(1deg);-o-transform:rotate(1deg);`+
			`transform:rotate(1deg)}`)
}

func TestPrefixOnlyMatrix(t *testing.T) {
	c := check.New(t)

	p := mustNew(c, "ie 8")
	c.Equal(
		prefix(c, p, `.a{transform:none;color:red}`),
		`.a{-ms-transform:none;transform:none;color:red}`)

	p = mustNew(c, "edge 15")
	c.Equal(
		prefix(c, p, `.a{transform:none}`),
		`.a{transform:none}`)
}

func TestPrefixPassThrough(t *testing.T) {
	c := check.New(t)

	p := mustNew(c, "last 2 versions")

	in := `@charset "utf-8";@import url(a.css);` +
		`a:hover,b{color:#000;background:url(x.png)}` +
		`@media screen and (max-width:10px){.b{margin:0}}`
	c.Equal(prefix(c, p, in), in)
}

func TestPrefixNested(t *testing.T) {
	c := check.New(t)

	p := mustNew(c, "safari 5")
	c.Equal(
		prefix(c, p, `@media print{.a{box-shadow:none}}`),
		`@media print{.a{-webkit-box-shadow:none;box-shadow:none}}`)
}

func TestPrefixNoDuplicates(t *testing.T) {
	c := check.New(t)

	p := mustNew(c, "chrome 10", "firefox 3")
	c.Equal(
		prefix(c, p, `.a{-webkit-border-radius:2px;border-radius:3px}`),
		`.a{-webkit-border-radius:2px;-moz-border-radius:3px;border-radius:3px}`)

	// A hand-written prefix later in the block counts too
	c.Equal(
		prefix(c, p, `.a{border-radius:3px;-webkit-border-radius:2px}`),
		`.a{-moz-border-radius:3px;border-radius:3px;-webkit-border-radius:2px}`)

	// Same property in a sibling block gets prefixed again
	c.Equal(
		prefix(c, p, `.a{border-radius:1px}.b{border-radius:1px}`),
		`.a{-webkit-border-radius:1px;-moz-border-radius:1px;border-radius:1px}`+
			`.b{-webkit-border-radius:1px;-moz-border-radius:1px;border-radius:1px}`)
}

func TestPrefixNoDuplicatesLater(t *testing.T) {
	c := check.New(t)

	p := mustNew(c, "last 15 versions")
	out := prefix(c, p, `.a{transform:x;-webkit-transform:y}.b{-webkit-transform:z}`)

	c.Equal(strings.Count(out, "-webkit-transform"), 2)
	c.Contains(out, `-webkit-transform:y}`)
	c.NotContains(out, `-webkit-transform:x`)
	c.Contains(out, `-moz-transform:x;`)

	// Nested blocks are tracked separately from their parents
	out = prefix(c, p, `@media print{.a{transform:x}-webkit-transform:y}`)
	c.Contains(out, `.a{-webkit-transform:x;`)
}

func TestPrefixDisplayFlex(t *testing.T) {
	c := check.New(t)

	p := mustNew(c, "ie 10", "safari 6")
	c.Equal(
		prefix(c, p, `.a{display:flex}`),
		`.a{display:-webkit-box;display:-webkit-flex;display:-ms-flexbox;display:flex}`)
}

func TestPrefixIdempotent(t *testing.T) {
	c := check.New(t)

	p := mustNew(c, "last 15 versions", "> 1%", "ie 8", "ie 7")
	in := `.a{transition:all 1s;user-select:none;display:flex}`

	once := prefix(c, p, in)
	c.Equal(prefix(c, p, in), once)
	c.Equal(prefix(c, p, once), once)
}

func TestParseBrowsers(t *testing.T) {
	c := check.New(t)

	vs, err := ParseBrowsers([]string{"last 15 versions", "> 1%", "ie 8", "ie 7"})
	c.Must.Nil(err)
	c.True(vs.Has(Webkit))
	c.True(vs.Has(Moz))
	c.True(vs.Has(MS))
	c.True(vs.Has(O))

	vs, err = ParseBrowsers([]string{"> 5%"})
	c.Must.Nil(err)
	c.True(vs.Has(Webkit))
	c.False(vs.Has(MS))

	vs, err = ParseBrowsers([]string{"opera 12", "opera 40"})
	c.Must.Nil(err)
	c.True(vs.Has(O))
	c.True(vs.Has(Webkit))

	for _, bad := range []string{"last x versions", "netscape 4", "ie", "> lots"} {
		_, err = ParseBrowsers([]string{bad})
		c.NotNil(err)
	}
}
