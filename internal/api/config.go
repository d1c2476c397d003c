package api

// Config holds server configuration.
type Config struct {
	Port           int
	StorePath      string   // SQLite snapshot store path
	AllowedOrigins []string // CORS allowed origins (empty = allow all)
}
