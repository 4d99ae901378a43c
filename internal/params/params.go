package params

import (
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/DMarby/quick-pic/internal/editor"
)

// DefaultFilename is the download name used when the export request
// does not carry one
const DefaultFilename = "processed-image.png"

// Query parameter names for the adjustment values, matching their JSON keys
const (
	keyMaskOpacity  = "mask_opacity"
	keyMaskColor    = "mask_color"
	keyImageOpacity = "image_opacity"
	keyBlurAmount   = "blur_amount"
)

// Query returns the query parameter representation of the given adjustments,
// for building share links
func Query(cfg editor.Config) url.Values {
	return url.Values{
		keyMaskOpacity:  []string{formatFloat(cfg.MaskOpacity)},
		keyMaskColor:    []string{cfg.MaskColor},
		keyImageOpacity: []string{formatFloat(cfg.ImageOpacity)},
		keyBlurAmount:   []string{formatFloat(cfg.BlurAmount)},
	}
}

// Patch parses adjustment query parameters into a config patch.
// Absent and malformed numeric values leave their fields out of the patch,
// color values pass through as given.
func Patch(query url.Values) editor.ConfigPatch {
	var patch editor.ConfigPatch

	patch.MaskOpacity = floatParam(query, keyMaskOpacity)
	patch.ImageOpacity = floatParam(query, keyImageOpacity)
	patch.BlurAmount = floatParam(query, keyBlurAmount)

	if query.Has(keyMaskColor) {
		color := query.Get(keyMaskColor)
		patch.MaskColor = &color
	}

	return patch
}

// Filename returns the export download name from the filename query
// parameter. The value is reduced to a safe base name with a png
// extension, an empty or unusable value yields the default name.
func Filename(r *http.Request) string {
	name := path.Base(r.URL.Query().Get("filename"))

	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == '"' || r == '\\' {
			return -1
		}
		return r
	}, name)

	if name == "" || name == "." || name == "/" {
		return DefaultFilename
	}

	if !strings.HasSuffix(strings.ToLower(name), ".png") {
		name += ".png"
	}

	return name
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func floatParam(query url.Values, key string) *float64 {
	if !query.Has(key) {
		return nil
	}

	v, err := strconv.ParseFloat(query.Get(key), 64)
	if err != nil {
		return nil
	}

	return &v
}

// BuildQuery builds a query parameter string for the given values
// It differs from the stdlib url.Values.Encode in that it encodes query parameters with an empty value as "?key" instead of "?key="
func BuildQuery(v url.Values) string {
	var buf strings.Builder

	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, key := range keys {
		value := v.Get(key)

		if value != "" {
			addQueryParam(&buf, url.QueryEscape(key)+"="+url.QueryEscape(value))
		} else {
			addQueryParam(&buf, url.QueryEscape(key))
		}
	}

	return buf.String()
}

func addQueryParam(buf *strings.Builder, param string) {
	if buf.Len() > 0 {
		buf.WriteByte('&')
	} else {
		buf.WriteByte('?')
	}

	buf.WriteString(param)
}
