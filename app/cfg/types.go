package cfg

import "time"

type Cfg struct {
	// Storage
	DBPath string

	// HTTP server
	Host        string
	Port        string
	BaseUrl     string
	CORSOrigins []string

	// Authentication
	SecretKey  string
	SessionTTL time.Duration
	TokenTTL   time.Duration

	// Cache
	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Presentation
	Language   string
	SiteConfig string
	Site       *Site

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

// Addr is the listen address of the HTTP server.
func (c *Cfg) Addr() string {
	return c.Host + ":" + c.Port
}

// PublicURL is BaseUrl, or a localhost URL when it is not configured.
func (c *Cfg) PublicURL() string {
	if c.BaseUrl != "" {
		return c.BaseUrl
	}
	return "http://localhost:" + c.Port
}
