package config

// RedisConfig contains Redis configuration for the token denylist.
// An empty Addr disables Redis entirely; logout then only clears the
// client cookie, without server-side revocation.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:""`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// Enabled reports whether a Redis connection is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }
