package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// CounterKey is the reserved key in the album namespace that holds the
// upload counter. It is never a valid album code and is excluded from
// every listing.
const CounterKey = "__counter"

const (
	defaultSiteTitle  = "MTCweb"
	defaultBotAPIBase = "https://api.telegram.org"
	defaultKVAPIBase  = "https://api.cloudflare.com/client/v4"
	defaultCategories = "热门 Cosplay,视频专区,软件资源,个人写真"
	defaultPageSize   = 24
)

type Config struct {
	// address the HTTP server binds to, derived from PORT
	ListenAddr string

	// site identity shown by the templates
	SiteTitle   string
	SiteLogoURL string

	// ordered category list used for navigation and filter matching
	Categories []string

	// albums per listing page
	PageSize int

	// key-value album store (Cloudflare KV REST API)
	KVAPIBase     string
	KVAccountID   string
	KVNamespaceID string
	KVAPIToken    string

	// file-hosting upstream (Telegram Bot API)
	BotAPIBase string
	BotToken   string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

// ParseCategories splits a comma-separated category string into an ordered
// list of trimmed, non-empty names.
func ParseCategories(raw string) []string {
	parts := strings.Split(raw, ",")
	cats := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cats = append(cats, p)
		}
	}
	return cats
}

func LoadConfig() (Config, error) {
	accountID := os.Getenv("CF_ACCOUNT_ID")
	namespaceID := os.Getenv("CF_NAMESPACE_ID")
	apiToken := os.Getenv("CF_API_TOKEN")
	if accountID == "" || namespaceID == "" || apiToken == "" {
		return Config{}, fmt.Errorf("CF_ACCOUNT_ID, CF_NAMESPACE_ID and CF_API_TOKEN must all be set")
	}

	port := getEnvOrDefault("PORT", "8080")

	cfg := Config{
		ListenAddr:    ":" + port,
		SiteTitle:     getEnvOrDefault("SITE_TITLE", defaultSiteTitle),
		SiteLogoURL:   os.Getenv("SITE_LOGO_URL"),
		Categories:    ParseCategories(getEnvOrDefault("CATEGORIES", defaultCategories)),
		PageSize:      getEnvIntOrDefault("PAGE_SIZE", defaultPageSize),
		KVAPIBase:     getEnvOrDefault("KV_API_BASE", defaultKVAPIBase),
		KVAccountID:   accountID,
		KVNamespaceID: namespaceID,
		KVAPIToken:    apiToken,
		BotAPIBase:    getEnvOrDefault("BOT_API_BASE", defaultBotAPIBase),
		// BOT_TOKEN may be empty; the file proxy then rejects foreign
		// identifier references at request time
		BotToken: os.Getenv("BOT_TOKEN"),
	}

	return cfg, nil
}
