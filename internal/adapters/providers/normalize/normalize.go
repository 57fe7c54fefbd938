// Package normalize converts heterogeneous provider JSON into canonical
// result fields. Providers are partially undocumented from our vantage point,
// so every canonical attribute is resolved through an ordered chain of
// candidate field paths with a safe default at the end. All functions are
// pure and never panic on shape drift.
package normalize

import (
	"hash/fnv"
	"net/url"
	"strconv"
	"strings"
)

// Chain is an ordered list of dotted field paths probed against a raw
// provider item, first match wins. Path segments may be numeric to index
// into arrays, e.g. "photos.0.url".
type Chain []string

// String resolves the first non-empty string along the chain.
func String(item map[string]interface{}, chain Chain, def string) string {
	for _, path := range chain {
		if v, ok := lookup(item, path); ok {
			if s, ok := toString(v); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return def
}

// Float resolves the first parseable positive number along the chain.
func Float(item map[string]interface{}, chain Chain, def float64) float64 {
	for _, path := range chain {
		if v, ok := lookup(item, path); ok {
			if f, ok := toFloat(v); ok && f > 0 {
				return f
			}
		}
	}
	return def
}

// Number resolves the first parseable number along the chain, any sign.
// Unlike Float it does not treat zero or negative values as missing, so it
// suits coordinates and offsets rather than prices.
func Number(item map[string]interface{}, chain Chain) (float64, bool) {
	for _, path := range chain {
		if v, ok := lookup(item, path); ok {
			if f, ok := toFloat(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// Int resolves the first parseable non-negative integer along the chain.
func Int(item map[string]interface{}, chain Chain, def int) int {
	for _, path := range chain {
		if v, ok := lookup(item, path); ok {
			if f, ok := toFloat(v); ok && f >= 0 {
				return int(f)
			}
		}
	}
	return def
}

// Strings resolves the first slice along the chain, keeping its string
// elements. Returns nil when nothing matches.
func Strings(item map[string]interface{}, chain Chain) []string {
	for _, path := range chain {
		v, ok := lookup(item, path)
		if !ok {
			continue
		}
		raw, ok := v.([]interface{})
		if !ok {
			continue
		}
		var out []string
		for _, el := range raw {
			if s, ok := toString(el); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// Items resolves the first list of objects along the chain. Non-object
// elements are skipped. Returns nil when nothing matches.
func Items(resp map[string]interface{}, chain Chain) []map[string]interface{} {
	for _, path := range chain {
		v, ok := lookup(resp, path)
		if !ok {
			continue
		}
		raw, ok := v.([]interface{})
		if !ok {
			continue
		}
		out := make([]map[string]interface{}, 0, len(raw))
		for _, el := range raw {
			if m, ok := el.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// lookup walks a dotted path through nested maps and slices.
func lookup(item map[string]interface{}, path string) (interface{}, bool) {
	var cur interface{} = item
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// toString accepts strings and numbers; providers disagree on whether IDs
// are JSON strings or numbers.
func toString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return "", false
	}
}

// toFloat accepts numbers and numeric strings, tolerating currency symbols
// and thousands separators ("$1,234.56").
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, n)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// defaultNativeRating is assumed when a provider omits the rating entirely,
// expressed on the common 5-point scale before normalization.
const defaultNativeRating = 4.0

// Rating normalizes a provider rating to the canonical 0-10 scale. Ratings at
// or below 5 are treated as 5-point-scale values and doubled; anything above
// 10 is clamped. A missing or non-positive rating takes the default.
func Rating(v float64) float64 {
	if v <= 0 {
		v = defaultNativeRating
	}
	if v <= 5 {
		v *= 2
	}
	if v > 10 {
		v = 10
	}
	return v
}

// imageHostAllowlist holds CDN hosts known to serve real inventory photos.
var imageHostAllowlist = map[string]bool{
	"cf.bstatic.com":                  true,
	"q-xx.bstatic.com":                true,
	"media-cdn.tripadvisor.com":       true,
	"dynamic-media-cdn.tripadvisor.com": true,
	"images.unsplash.com":             true,
	"content.r9cdn.net":               true,
	"imgcy.trivago.com":               true,
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// IsValidImageURL reports whether s is an absolute HTTP(S) URL pointing at a
// recognized image host or carrying an image extension. URLs mentioning
// "placeholder" are rejected so upstream stub images never leak through.
func IsValidImageURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.Contains(strings.ToLower(s), "placeholder") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}
	if imageHostAllowlist[strings.ToLower(u.Host)] {
		return true
	}
	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// placeholderPool holds stable travel-themed photos used when a provider
// image is unusable. Keyed by location so the same search always renders the
// same image.
var placeholderPool = []string{
	"https://images.unsplash.com/photo-1566073771259-6a8506099945?w=800&q=80",
	"https://images.unsplash.com/photo-1502602898657-3e91760cbb34?w=800&q=80",
	"https://images.unsplash.com/photo-1520250497591-112f2f40a3f4?w=800&q=80",
	"https://images.unsplash.com/photo-1436491865332-7a61a109cc05?w=800&q=80",
	"https://images.unsplash.com/photo-1449965408869-eaa3f722e40d?w=800&q=80",
	"https://images.unsplash.com/photo-1469854523086-cc02fe5d8800?w=800&q=80",
}

// ImageOrPlaceholder returns candidate when it is a usable image URL, and a
// deterministic location-keyed placeholder otherwise.
func ImageOrPlaceholder(candidate, location string) string {
	if IsValidImageURL(candidate) {
		return candidate
	}
	return PlaceholderImage(location)
}

// PlaceholderImage returns the placeholder image for a location.
func PlaceholderImage(location string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(location))))
	return placeholderPool[h.Sum32()%uint32(len(placeholderPool))]
}
