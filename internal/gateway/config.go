package gateway

import (
	"regexp"
	"strings"
	"time"

	"bookshelf/internal/logger"
)

const (
	DefaultProductionURL  = "https://book-2-m704.onrender.com"
	DefaultDevelopmentURL = "http://localhost:5165"
	DefaultTimeout        = 15 * time.Second
)

var loopbackURL = regexp.MustCompile(`(?i)^(https?://)?(localhost|127\.0\.0\.1)(:\d+)?`)

// Config is built once by the caller and handed to New.
type Config struct {
	// OverrideURL is the explicitly configured backend, if any.
	OverrideURL string
	// Production is the build-mode flag.
	Production bool
	// FrontendHost is the host the client itself is served from.
	FrontendHost string

	ProductionURL  string
	DevelopmentURL string
	Timeout        time.Duration
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.ProductionURL) == "" {
		c.ProductionURL = DefaultProductionURL
	}
	if strings.TrimSpace(c.DevelopmentURL) == "" {
		c.DevelopmentURL = DefaultDevelopmentURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// IsLoopbackHost reports whether host names the local machine.
func IsLoopbackHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1":
		return true
	}
	return false
}

// IsLoopbackURL reports whether raw points at localhost or 127.0.0.1.
func IsLoopbackURL(raw string) bool {
	return loopbackURL.MatchString(strings.TrimSpace(raw))
}

// ResolveBaseURL picks the backend base URL. A loopback override is refused
// for production builds and for clients not themselves running on loopback.
func ResolveBaseURL(cfg Config, log *logger.Logger) string {
	cfg = cfg.withDefaults()
	log = logger.OrDiscard(log)

	override := normalizeOverride(cfg.OverrideURL)
	localFrontend := IsLoopbackHost(cfg.FrontendHost)

	var resolved string
	switch {
	case override != "" && IsLoopbackURL(override) && (cfg.Production || !localFrontend):
		log.Warn("loopback api base url rejected for published environment",
			"override", override, "using", cfg.ProductionURL)
		resolved = cfg.ProductionURL
	case override != "":
		resolved = override
	case localFrontend:
		resolved = cfg.DevelopmentURL
	default:
		resolved = cfg.ProductionURL
	}
	return strings.TrimRight(resolved, "/")
}

// normalizeOverride trims whitespace and one pair of stray quotes left by .env files.
func normalizeOverride(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(strings.TrimPrefix(s, `"`), `'`)
	s = strings.TrimSuffix(strings.TrimSuffix(s, `"`), `'`)
	return strings.TrimSpace(s)
}
