package logger

import "strings"

var sensitiveKeys = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"access_token",
	"authorization",
	"account",
	"card",
}

// MaskPayload returns a copy of a webhook payload safe for logging. Values
// under sensitive keys keep only their last four characters; nested objects
// are masked recursively.
func MaskPayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	masked := make(map[string]any, len(payload))
	for key, value := range payload {
		switch typed := value.(type) {
		case map[string]any:
			masked[key] = MaskPayload(typed)
		case string:
			if isSensitiveKey(key) {
				masked[key] = maskLast4(typed)
			} else {
				masked[key] = typed
			}
		default:
			masked[key] = value
		}
	}
	return masked
}

func isSensitiveKey(key string) bool {
	lowered := strings.ToLower(strings.TrimSpace(key))
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowered, sensitive) {
			return true
		}
	}
	return false
}

func maskLast4(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
