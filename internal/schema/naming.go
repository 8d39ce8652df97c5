package schema

import (
	"crypto/md5"
	"fmt"
	"regexp"
	"strings"
)

// Two-pass camel-case splitter. The first pass separates a trailing
// capitalized word, the second splits the remaining lower/upper
// boundaries, so acronym runs stay intact: WebHTTPRequest becomes
// web_http_request.
var (
	snakeHeadRE = regexp.MustCompile(`(.)_*([A-Z][a-z]+)`)
	snakeTailRE = regexp.MustCompile(`([a-z0-9])_*([A-Z])`)
)

// SnakeCase derives the table name from a type name.
func SnakeCase(name string) string {
	s := snakeHeadRE.ReplaceAllString(name, "${1}_${2}")
	s = snakeTailRE.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// legacyName is the historical derivation: the type name lowercased
// with no word splitting.
func legacyName(typeName string) string {
	return strings.ToLower(typeName)
}

// TruncateIdentifier shortens name to maxLen by replacing the tail with
// an underscore plus a 7-character hash of the full name. maxLen <= 0
// means no limit. The hash keeps truncated names distinct and stable.
func TruncateIdentifier(name string, maxLen int) string {
	if maxLen <= 0 || len(name) <= maxLen {
		return name
	}
	sum := fmt.Sprintf("%x", md5.Sum([]byte(name)))
	return name[:maxLen-8] + "_" + sum[:7]
}

// indexPrefix is the leading component of derived index names. Legacy
// naming always derives it from the type name, even when the table name
// was set explicitly.
func (t *Table) indexPrefix() string {
	if t.legacyNames {
		return legacyName(t.typeName)
	}
	return t.Name()
}

// indexName derives an index name from its plain-column terms. The
// caller truncates to the dialect limit.
func (t *Table) indexName(fields []string) string {
	if len(fields) == 0 {
		return t.indexPrefix()
	}
	return t.indexPrefix() + "_" + strings.Join(fields, "_")
}
