package i18n

import (
	"embed"
	"fmt"
	"maps"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Bundle holds flattened translation tables keyed by dotted paths
// ("blog.readMore").
type Bundle struct {
	messages map[Locale]map[string]string
}

func LoadBundle() (*Bundle, error) {
	b := &Bundle{messages: make(map[Locale]map[string]string, len(Supported))}

	for _, l := range Supported {
		raw, err := localeFS.ReadFile("locales/" + string(l) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s translations: %w", l, err)
		}
		msgs, err := parseMessages(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s translations: %w", l, err)
		}
		b.messages[l] = msgs
	}

	return b, nil
}

func parseMessages(raw []byte) (map[string]string, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// T translates key, falling back to Default and then to the key itself.
func (b *Bundle) T(l Locale, key string) string {
	if msg, ok := b.messages[l][key]; ok {
		return msg
	}
	if msg, ok := b.messages[Default][key]; ok {
		return msg
	}
	return key
}

// Messages returns the table of l with missing keys filled from Default.
// Keys can be narrowed with a dotted prefix.
func (b *Bundle) Messages(l Locale, prefix string) map[string]string {
	out := make(map[string]string)
	maps.Copy(out, b.messages[Default])
	maps.Copy(out, b.messages[l])

	if prefix == "" {
		return out
	}
	prefix = strings.TrimSuffix(prefix, ".") + "."
	for k := range out {
		if !strings.HasPrefix(k, prefix) {
			delete(out, k)
		}
	}
	return out
}
