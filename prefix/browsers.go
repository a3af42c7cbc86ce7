package prefix

import (
	"fmt"
	"strconv"
	"strings"
)

// A Vendor is a vendor prefix, eg. "-webkit-"
type Vendor string

// Known vendors, in the order their declarations are emitted
const (
	Webkit Vendor = "-webkit-"
	Moz    Vendor = "-moz-"
	MS     Vendor = "-ms-"
	O      Vendor = "-o-"
)

var allVendors = []Vendor{Webkit, Moz, MS, O}

// Vendors is the set of vendor prefixes a browser matrix needs
type Vendors map[Vendor]bool

// Has checks if v is needed
func (vs Vendors) Has(v Vendor) bool {
	return vs[v]
}

// ParseBrowsers turns browser queries ("last 2 versions", "> 1%", "ie 8",
// "firefox 15") into the vendor prefixes needed to support them.
func ParseBrowsers(queries []string) (Vendors, error) {
	vs := Vendors{}

	for _, q := range queries {
		err := vs.add(q)
		if err != nil {
			return nil, err
		}
	}

	return vs, nil
}

func (vs Vendors) add(query string) error {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return nil
	}

	switch {
	case fields[0] == "last" && len(fields) == 3 && fields[2] == "versions":
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid browser query %q", query)
		}

		// Current versions only need webkit; going back any further reaches
		// versions that needed everything
		vs[Webkit] = true
		if n > 1 {
			for _, v := range allVendors {
				vs[v] = true
			}
		}

		return nil

	case strings.HasPrefix(fields[0], ">"):
		pct := strings.TrimSuffix(strings.TrimPrefix(strings.Join(fields, ""), ">"), "%")
		if _, err := strconv.ParseFloat(strings.TrimPrefix(pct, "="), 64); err != nil {
			return fmt.Errorf("invalid browser query %q", query)
		}

		vs[Webkit] = true
		return nil
	}

	if len(fields) != 2 {
		return fmt.Errorf("invalid browser query %q", query)
	}

	ver, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("invalid version in browser query %q", query)
	}

	switch fields[0] {
	case "ie", "explorer", "ie_mob":
		vs[MS] = true

	case "firefox", "ff", "and_ff":
		vs[Moz] = true

	case "chrome", "safari", "ios", "ios_saf", "android", "and_chr", "samsung":
		vs[Webkit] = true

	case "opera", "op_mob":
		if ver <= 12.1 {
			vs[O] = true
		} else {
			vs[Webkit] = true
		}

	case "edge":

	default:
		return fmt.Errorf("unknown browser in query %q", query)
	}

	return nil
}
