package partials

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/Joker/jade"
)

// ErrDynamic is returned for a template that needs data to render. Partials
// are included by the generator as-is, so only static jade can be compiled.
// Liquid tags in text and in quoted attributes pass through untouched.
var ErrDynamic = errors.New("jade code and interpolation (=, -, #{}, !{}, " +
	"if, each, mixin arguments) can't be compiled into a static partial")

const (
	dynamic = "\x1a" // Marks template code
	attrEsc = "\x1b" // Opens an attribute expression
	attrRaw = "\x1d" // Opens an unescaped attribute expression
	attrEnd = "\x1c"
)

var (
	attrExpr = regexp.MustCompile(
		"([" + attrEsc + attrRaw + "])([^" + attrEnd + "]*)" + attrEnd)
	strLit = regexp.MustCompile(`^\s*(?:"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*')`)

	configureOnce sync.Once
)

func configure() {
	jade.Config(jade.ReplaseTokens{
		TagArgEsc: ` %s="` + attrEsc + `%s` + attrEnd + `"`,
		TagArgUne: ` %s="` + attrRaw + `%s` + attrEnd + `"`,

		CondIf:     dynamic + "{{ if %s }}",
		CondUnless: dynamic + "{{ if not %s }}",
		CondCase:   dynamic + "{{/* switch %s */}}",
		CondWhile:  dynamic + "{{ range %s }}",
		CondFor:    dynamic + "{{/* %s, %s */}}{{ range %s }}",
		CondEnd:    dynamic + "{{ end }}",
		CondForIf:  dynamic + "{{ if gt len %s 0 }}{{/* %s, %s */}}{{ range %s }}",

		CodeForElse:   dynamic + "{{ end }}{{ else }}",
		CodeLongcode:  dynamic + "{{/* %s */}}",
		CodeBuffered:  dynamic + "{{ %s }}",
		CodeUnescaped: dynamic + "{{ %s }}",
		CodeElse:      dynamic + "{{ else }}",
		CodeElseIf:    dynamic + "{{ else if %s }}",
		CodeCaseWhen:  dynamic + "{{/* case %s: */}}",
		CodeCaseDef:   dynamic + "{{/* default: */}}",
		CodeMixBlock:  dynamic + "{{/* block */}}",

		MixinVar:     dynamic + "{{ $%s := %s }}",
		MixinVarRest: dynamic + "{{ $%s := %#v }}",
	})
}

// static resolves attribute expressions that are only string literals (jade
// joins a tag's classes that way), then fails if any template code is left.
func static(out string) (string, error) {
	var err error

	out = attrExpr.ReplaceAllStringFunc(out, func(m string) string {
		sub := attrExpr.FindStringSubmatch(m)

		val, ok := joinLiterals(sub[2])
		if !ok {
			err = ErrDynamic
			return m
		}

		if sub[1] == attrEsc {
			val = html.EscapeString(val)
		}

		return val
	})

	if err == nil && strings.Contains(out, dynamic) {
		err = ErrDynamic
	}

	if err != nil {
		return "", err
	}

	return out, nil
}

func joinLiterals(expr string) (string, bool) {
	var b strings.Builder

	for strings.TrimSpace(expr) != "" {
		m := strLit.FindString(expr)
		if m == "" {
			return "", false
		}

		expr = expr[len(m):]

		lit := strings.TrimSpace(m)
		q := lit[:1]
		b.WriteString(strings.ReplaceAll(lit[1:len(lit)-1], `\`+q, q))
	}

	return b.String(), true
}
