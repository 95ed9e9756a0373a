package config

import "time"

const (
	EnvServerAddr           = "TRADEVERIFY_ADDR"
	EnvServerReadTimeout    = "TRADEVERIFY_READ_HEADER_TIMEOUT"
	EnvServerAuthSigningKey = "TRADEVERIFY_AUTH_SIGNING_KEY"
	EnvServerAuthIssuer     = "TRADEVERIFY_AUTH_ISSUER"
	EnvServerAuthAudience   = "TRADEVERIFY_AUTH_AUDIENCE"
	EnvServerAdminToken     = "TRADEVERIFY_ADMIN_TOKEN"
)

// ServerConfig captures HTTP server level configuration. Bearer-token auth is
// enabled only when AuthSigningKey is set; admin routes only when AdminToken is.
type ServerConfig struct {
	Addr              string `toml:"addr"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	AuthSigningKey    string `toml:"auth_signing_key"`
	AuthIssuer        string `toml:"auth_issuer"`
	AuthAudience      string `toml:"auth_audience"`
	AdminToken        string `toml:"admin_token"`
}

func (s *ServerConfig) Merge(o *ServerConfig) {
	if o.Addr != "" {
		s.Addr = o.Addr
	}
	if o.ReadHeaderTimeout != "" {
		s.ReadHeaderTimeout = o.ReadHeaderTimeout
	}
	if o.AuthSigningKey != "" {
		s.AuthSigningKey = o.AuthSigningKey
	}
	if o.AuthIssuer != "" {
		s.AuthIssuer = o.AuthIssuer
	}
	if o.AuthAudience != "" {
		s.AuthAudience = o.AuthAudience
	}
	if o.AdminToken != "" {
		s.AdminToken = o.AdminToken
	}
}

func (s *ServerConfig) Finalize() error {
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.ReadHeaderTimeout == "" {
		s.ReadHeaderTimeout = "5s"
	}
	if s.AuthIssuer == "" {
		s.AuthIssuer = "tradeverify"
	}
	if s.AuthAudience == "" {
		s.AuthAudience = "tradeverify-api"
	}

	setString(&s.Addr, EnvServerAddr)
	setString(&s.ReadHeaderTimeout, EnvServerReadTimeout)
	setString(&s.AuthSigningKey, EnvServerAuthSigningKey)
	setString(&s.AuthIssuer, EnvServerAuthIssuer)
	setString(&s.AuthAudience, EnvServerAuthAudience)
	setString(&s.AdminToken, EnvServerAdminToken)

	_, err := parseDuration("read_header_timeout", s.ReadHeaderTimeout)
	return err
}

// AuthEnabled reports whether API routes require a bearer token.
func (s *ServerConfig) AuthEnabled() bool {
	return s.AuthSigningKey != ""
}

func (s *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return mustDuration(s.ReadHeaderTimeout)
}
