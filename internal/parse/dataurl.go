package parse

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var dataURLRe = regexp.MustCompile(`(?s)^data:([^,;]*)((?:;[^,;=]+=[^,;]*)*)(;base64)?,(.*)$`)

// DataURL is an inline binary payload as carried by operator photos and report images.
type DataURL struct {
	MediaType string
	Data      []byte
}

// ParseDataURL decodes an RFC 2397 data URL. Both base64 and percent-encoded bodies are accepted.
func ParseDataURL(raw string) (DataURL, error) {
	m := dataURLRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return DataURL{}, fmt.Errorf("not a data URL")
	}

	mediaType := m[1]
	if mediaType == "" {
		mediaType = "text/plain"
	}

	var data []byte
	if m[3] != "" {
		// Browsers emit padded standard base64; tolerate missing padding.
		body := strings.TrimRight(m[4], "=")
		b, err := base64.RawStdEncoding.DecodeString(body)
		if err != nil {
			return DataURL{}, fmt.Errorf("invalid base64 body: %w", err)
		}
		data = b
	} else {
		s, err := url.PathUnescape(m[4])
		if err != nil {
			return DataURL{}, fmt.Errorf("invalid percent-encoded body: %w", err)
		}
		data = []byte(s)
	}

	return DataURL{MediaType: mediaType, Data: data}, nil
}

// IsImage reports whether the media type is an image/* type.
func (d DataURL) IsImage() bool {
	return strings.HasPrefix(d.MediaType, "image/")
}

// EncodeDataURL turns raw file bytes into a base64 data URL, sniffing the media type from content.
func EncodeDataURL(data []byte) string {
	mtype := mimetype.Detect(data).String()
	// Drop parameters such as "; charset=utf-8" to keep the prefix short.
	if i := strings.IndexByte(mtype, ';'); i >= 0 {
		mtype = strings.TrimSpace(mtype[:i])
	}
	return "data:" + mtype + ";base64," + base64.StdEncoding.EncodeToString(data)
}
