package vault

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultContentType is used when the download response does not declare one.
const DefaultContentType = "application/pdf"

// Matches filename*=UTF-8''<pct-encoded> and the quoted filename="UTF-8''..."
// form some Vault tenants emit.
var utf8FilenameRe = regexp.MustCompile(`(?i)filename\*?=['"]?UTF-8''([^'";]+)`)

// DefaultFilename is the name given to a document whose response carries no
// usable Content-Disposition filename.
func DefaultFilename(documentID string) string {
	return "vault_" + documentID + ".bin"
}

// FilenameFromDisposition extracts the UTF-8 filename parameter from a
// Content-Disposition header value, percent-decoded. Names that do not decode
// to valid UTF-8 fall back to DefaultFilename.
func FilenameFromDisposition(header, documentID string) string {
	if header == "" {
		return DefaultFilename(documentID)
	}
	m := utf8FilenameRe.FindStringSubmatch(header)
	if m == nil {
		return DefaultFilename(documentID)
	}
	name, err := url.PathUnescape(m[1])
	if err != nil || name == "" || !utf8.ValidString(name) {
		return DefaultFilename(documentID)
	}
	return name
}

// ContentTypeFromHeader strips parameters such as charset from a Content-Type
// header value.
func ContentTypeFromHeader(header string) string {
	mediaType, _, _ := strings.Cut(header, ";")
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		return DefaultContentType
	}
	return mediaType
}
