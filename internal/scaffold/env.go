package scaffold

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/stackgen-labs/stackgen/internal/catalog"
)

// Characters that both godotenv and Node's dotenv read back verbatim when
// the value is unquoted.
var plainEnvValue = regexp.MustCompile(`^[A-Za-z0-9_./:@,+=%?&!*~^-]*$`)

// RenderEnv renders a .env body. Catalog entries come first, in catalog
// order, with non-empty overrides applied; override keys the catalog does
// not list follow, sorted. Values are written unquoted when safe and quoted
// otherwise, never with backslash escapes.
func RenderEnv(defaults catalog.Pairs, overrides map[string]string) ([]byte, error) {
	entries := make(catalog.Pairs, 0, len(defaults)+len(overrides))
	listed := make(map[string]bool, len(defaults))
	for _, kv := range defaults {
		if v := overrides[kv.Key]; v != "" {
			kv.Value = v
		}
		listed[kv.Key] = true
		entries = append(entries, kv)
	}

	var extra []string
	for k, v := range overrides {
		if !listed[k] && v != "" {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		entries = append(entries, catalog.Pair{Key: k, Value: overrides[k]})
	}

	var b strings.Builder
	for _, kv := range entries {
		line, err := envLine(kv.Key, kv.Value)
		if err != nil {
			return nil, err
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	parsed, err := godotenv.Unmarshal(b.String())
	if err != nil {
		return nil, fmt.Errorf("rendering .env: %w", err)
	}
	for _, kv := range entries {
		if parsed[kv.Key] != kv.Value {
			return nil, fmt.Errorf("rendering .env: %s reads back as %q, want %q", kv.Key, parsed[kv.Key], kv.Value)
		}
	}
	return []byte(b.String()), nil
}

func envLine(key, value string) (string, error) {
	switch {
	case plainEnvValue.MatchString(value):
		return key + "=" + value, nil
	case !strings.ContainsAny(value, "'\r\n"):
		// Single quotes: no escapes and no variable expansion.
		return key + "='" + value + "'", nil
	case !strings.ContainsAny(value, "\"\\$`\r\n"):
		return key + `="` + value + `"`, nil
	default:
		return "", fmt.Errorf(".env value for %s mixes a single quote with characters that need escaping", key)
	}
}
