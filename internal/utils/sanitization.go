package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// Base64 payloads (inline attachments, data URIs) can reach tens of megabytes;
// logging them verbatim makes log lines unusable and leaks attachment content.
const (
	base64TruncateThreshold = 256
	base64PreviewLength     = 64
)

var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/=_-]+$`)

// TruncateBase64InData walks an arbitrary structure of maps, slices and
// strings and truncates anything that looks like a large base64 payload.
func TruncateBase64InData(data interface{}) interface{} {
	switch v := data.(type) {
	case string:
		return TruncateBase64String(v)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[k] = TruncateBase64InData(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = TruncateBase64InData(val)
		}
		return out
	default:
		return data
	}
}

// TruncateBase64String truncates a string when it appears to be a large
// base64 blob or data URI, keeping a short preview and the original length.
func TruncateBase64String(s string) string {
	if len(s) <= base64TruncateThreshold {
		return s
	}

	payload := s
	prefix := ""
	if strings.HasPrefix(s, "data:") {
		if idx := strings.Index(s, ","); idx != -1 {
			prefix = s[:idx+1]
			payload = s[idx+1:]
		}
	}

	if len(payload) > base64TruncateThreshold && base64Pattern.MatchString(payload) {
		return fmt.Sprintf("%s%s...[TRUNCATED %d chars]", prefix, payload[:base64PreviewLength], len(payload))
	}
	return s
}
