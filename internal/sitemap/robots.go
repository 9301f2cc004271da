package sitemap

import (
	"strings"
)

// Crawlers that are explicitly welcomed, in addition to the wildcard agent.
var AllowedAgents = []string{
	"GPTBot",
	"ChatGPT-User",
	"Claude-Web",
	"Anthropic-AI",
	"Google-Extended",
	"Cohere-AI",
	"PerplexityBot",
	"Applebot-Extended",
	"*",
}

var DisallowedPaths = []string{"/api/", "/_next/"}

// Robots renders robots.txt pointing crawlers at the sitemap.
func Robots(baseURL string) string {
	var b strings.Builder
	for _, agent := range AllowedAgents {
		b.WriteString("User-Agent: " + agent + "\n")
		b.WriteString("Allow: /\n")
		for _, p := range DisallowedPaths {
			b.WriteString("Disallow: " + p + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Sitemap: " + strings.TrimRight(baseURL, "/") + "/sitemap.xml\n")
	return b.String()
}
