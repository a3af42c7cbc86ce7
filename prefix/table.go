package prefix

var (
	wm   = []Vendor{Webkit, Moz}
	wmo  = []Vendor{Webkit, Moz, O}
	wmms = []Vendor{Webkit, Moz, MS}
	w    = []Vendor{Webkit}
	wms  = []Vendor{Webkit, MS}
)

// Properties that have ever been vendor-prefixed, and by whom
var props = map[string][]Vendor{
	"animation":                  wmo,
	"animation-delay":            wmo,
	"animation-direction":        wmo,
	"animation-duration":         wmo,
	"animation-fill-mode":        wmo,
	"animation-iteration-count":  wmo,
	"animation-name":             wmo,
	"animation-play-state":       wmo,
	"animation-timing-function":  wmo,
	"appearance":                 wm,
	"backface-visibility":        wm,
	"background-clip":            wm,
	"background-size":            wmo,
	"border-radius":              wm,
	"box-shadow":                 wm,
	"box-sizing":                 wm,
	"column-count":               wm,
	"column-gap":                 wm,
	"columns":                    wm,
	"filter":                     w,
	"flex":                       wms,
	"flex-basis":                 w,
	"flex-direction":             wms,
	"flex-grow":                  w,
	"flex-shrink":                w,
	"flex-wrap":                  wms,
	"align-items":                w,
	"align-self":                 w,
	"justify-content":            w,
	"order":                      w,
	"hyphens":                    wmms,
	"perspective":                wm,
	"perspective-origin":         wm,
	"text-size-adjust":           wmms,
	"transform":                  {Webkit, Moz, MS, O},
	"transform-origin":           {Webkit, Moz, MS, O},
	"transform-style":            wm,
	"transition":                 wmo,
	"transition-delay":           wmo,
	"transition-duration":        wmo,
	"transition-property":        wmo,
	"transition-timing-function": wmo,
	"user-select":                wmms,
}

type valuePrefix struct {
	vendor Vendor
	value  string
}

// Values of "display" that have older, prefixed spellings
var displays = map[string][]valuePrefix{
	"flex": {
		{Webkit, "-webkit-box"},
		{Webkit, "-webkit-flex"},
		{MS, "-ms-flexbox"},
	},
	"inline-flex": {
		{Webkit, "-webkit-inline-box"},
		{Webkit, "-webkit-inline-flex"},
		{MS, "-ms-inline-flexbox"},
	},
}
