package config

import "time"

type Config struct {
	Web   Web
	DB    DB
	Cors  Cors
	Oauth Oauth
	Rate  Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User       string `conf:"default:postgres"`
	Password   string `conf:"default:postgres,mask"`
	Host       string `conf:"default:localhost:5432"`
	Name       string `conf:"default:collector"`
	DisableTLS bool   `conf:"default:true"`
}

type Cors struct {
	Origin string
}

// Oauth configures the flows against the external identity provider.
type Oauth struct {
	DiscoveryTimeout time.Duration `conf:"default:30s"`
	LoginRedirectURL string        `conf:"default:/"`
	Identity         Provider
}

type Provider struct {
	Client      string
	Secret      string `conf:"mask"`
	URL         string
	RedirectURL string
}

type Rate struct {
	Burst    int     `conf:"default:20"`
	ExpiryMn int     `conf:"default:10"`
	RPS      float64 `conf:"default:10"`
}
