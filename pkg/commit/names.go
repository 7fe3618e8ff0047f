package commit

import "strings"

// booleanAttributes are presence flags: false removes them, anything else
// sets them with an empty value. Keys are platform attribute names.
var booleanAttributes = map[string]bool{
	"readonly":        true,
	"disabled":        true,
	"checked":         true,
	"required":        true,
	"hidden":          true,
	"autofocus":       true,
	"multiple":        true,
	"selected":        true,
	"autoplay":        true,
	"controls":        true,
	"download":        true,
	"spellcheck":      true,
	"draggable":       true,
	"async":           true,
	"defer":           true,
	"sandbox":         true,
	"novalidate":      true,
	"contenteditable": true,
	"translate":       true,
	"allowfullscreen": true,
	"scoped":          true,
	"default":         true,
	"sortable":        true,
	"wrap":            true,
	"ismap":           true,
	"nohref":          true,
	"noresize":        true,
	"nowrap":          true,
	"compact":         true,
	"declare":         true,
	"noshade":         true,
}

// IsBooleanAttribute reports whether the platform attribute is a presence flag.
func IsBooleanAttribute(name string) bool {
	return booleanAttributes[name]
}

// svgTags are created in the SVG namespace.
var svgTags = map[string]bool{
	"svg":      true,
	"clipPath": true,
	"circle":   true,
	"ellipse":  true,
	"g":        true,
	"line":     true,
	"path":     true,
	"polygon":  true,
	"polyline": true,
	"rect":     true,
}

// IsSVGTag reports whether tag belongs to the SVG vocabulary.
func IsSVGTag(tag string) bool {
	return svgTags[tag]
}

// lowerCaseProps are property names whose attribute is the lower-cased name.
var lowerCaseProps = map[string]bool{
	"tabIndex":                true,
	"formAction":              true,
	"formMethod":              true,
	"formEncType":             true,
	"contentEditable":         true,
	"spellCheck":              true,
	"allowFullScreen":         true,
	"autoPlay":                true,
	"disablePictureInPicture": true,
	"disableRemotePlayback":   true,
	"formNoValidate":          true,
	"noModule":                true,
	"noValidate":              true,
	"playsInline":             true,
	"readOnly":                true,
	"itemscope":               true,
	"rowSpan":                 true,
	"crossOrigin":             true,
}

// kebabAttrs maps camel-cased property names to hyphenated attributes.
var kebabAttrs = map[string]string{
	"acceptCharset":              "accept-charset",
	"accentHeight":               "accent-height",
	"alignmentBaseline":          "alignment-baseline",
	"arabicForm":                 "arabic-form",
	"baselineShift":              "baseline-shift",
	"capHeight":                  "cap-height",
	"clipPath":                   "clip-path",
	"clipRule":                   "clip-rule",
	"colorInterpolation":         "color-interpolation",
	"colorInterpolationFilters":  "color-interpolation-filters",
	"colorProfile":               "color-profile",
	"colorRendering":             "color-rendering",
	"dominantBaseline":           "dominant-baseline",
	"enableBackground":           "enable-background",
	"fillOpacity":                "fill-opacity",
	"fillRule":                   "fill-rule",
	"floodColor":                 "flood-color",
	"floodOpacity":               "flood-opacity",
	"fontFamily":                 "font-family",
	"fontSize":                   "font-size",
	"fontSizeAdjust":             "font-size-adjust",
	"fontStretch":                "font-stretch",
	"fontStyle":                  "font-style",
	"fontVariant":                "font-variant",
	"fontWeight":                 "font-weight",
	"glyphName":                  "glyph-name",
	"glyphOrientationHorizontal": "glyph-orientation-horizontal",
	"glyphOrientationVertical":   "glyph-orientation-vertical",
	"horizAdvX":                  "horiz-adv-x",
	"horizOriginX":               "horiz-origin-x",
	"httpEquiv":                  "http-equiv",
	"imageRendering":             "image-rendering",
	"letterSpacing":              "letter-spacing",
	"lightingColor":              "lighting-color",
	"markerEnd":                  "marker-end",
	"markerMid":                  "marker-mid",
	"markerStart":                "marker-start",
	"overlinePosition":           "overline-position",
	"overlineThickness":          "overline-thickness",
	"paintOrder":                 "paint-order",
	"panose-1":                   "panose-1",
	"pointerEvents":              "pointer-events",
	"renderingIntent":            "rendering-intent",
	"shapeRendering":             "shape-rendering",
	"stopColor":                  "stop-color",
	"stopOpacity":                "stop-opacity",
	"strikethroughPosition":      "strikethrough-position",
	"strikethroughThickness":     "strikethrough-thickness",
	"strokeDasharray":            "stroke-dasharray",
	"strokeDashoffset":           "stroke-dashoffset",
	"strokeLinecap":              "stroke-linecap",
	"strokeLinejoin":             "stroke-linejoin",
	"strokeMiterlimit":           "stroke-miterlimit",
	"strokeOpacity":              "stroke-opacity",
	"strokeWidth":                "stroke-width",
	"textAnchor":                 "text-anchor",
	"textDecoration":             "text-decoration",
	"textRendering":              "text-rendering",
	"transformOrigin":            "transform-origin",
	"underlinePosition":          "underline-position",
	"underlineThickness":         "underline-thickness",
	"unicodeBidi":                "unicode-bidi",
	"unicodeRange":               "unicode-range",
	"unitsPerEm":                 "units-per-em",
	"vAlphabetic":                "v-alphabetic",
	"vHanging":                   "v-hanging",
	"vIdeographic":               "v-ideographic",
	"vMathematical":              "v-mathematical",
	"vectorEffect":               "vector-effect",
	"vertAdvY":                   "vert-adv-y",
	"vertOriginX":                "vert-origin-x",
	"vertOriginY":                "vert-origin-y",
	"wordSpacing":                "word-spacing",
	"writingMode":                "writing-mode",
	"xmlnsXlink":                 "xmlns:xlink",
	"xHeight":                    "x-height",
}

// PropToAttr translates a property name to its platform attribute name.
// Unmapped names pass through unchanged.
func PropToAttr(key string) string {
	switch key {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	}
	if lowerCaseProps[key] {
		return strings.ToLower(key)
	}
	if strings.HasPrefix(key, "aria") && !strings.HasPrefix(key, "aria-") {
		return "aria-" + strings.ToLower(key[4:])
	}
	if attr, ok := kebabAttrs[key]; ok {
		return attr
	}
	return key
}
