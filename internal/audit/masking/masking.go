// Package masking redacts credential material before it lands in the
// audit trail.
package masking

import "strings"

const redacted = "****"

// sensitive marks metadata keys whose values never appear in clear.
var sensitive = map[string]bool{
	"token":        true,
	"invite_token": true,
	"secret":       true,
	"password":     true,
	"code":         true,
	"session":      true,
}

// SensitiveKey reports whether metadata stored under key must be masked.
func SensitiveKey(key string) bool {
	return sensitive[strings.ToLower(strings.TrimSpace(key))]
}

// MaskSecret keeps the "tok_" style prefix and the last four characters
// so operators can correlate entries without seeing the credential.
func MaskSecret(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	prefix := ""
	if i := strings.LastIndex(value, "_"); i >= 0 && i < len(value)-1 {
		prefix = value[:i+1]
		value = value[i+1:]
	}
	if len(value) <= 4 {
		return prefix + redacted
	}
	return prefix + redacted + value[len(value)-4:]
}

// MaskMetadata walks an audit metadata map and redacts values stored
// under sensitive keys, including inside nested maps. Non-sensitive
// entries pass through untouched.
func MaskMetadata(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return nil
	}

	out := make(map[string]any, len(metadata))
	for key, value := range metadata {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		switch cast := value.(type) {
		case string:
			if SensitiveKey(key) {
				out[key] = MaskSecret(cast)
			} else {
				out[key] = cast
			}
		case map[string]any:
			out[key] = MaskMetadata(cast)
		default:
			if SensitiveKey(key) {
				out[key] = redacted
			} else {
				out[key] = value
			}
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
