package config

import "time"

type Config struct {
	Web       Web
	DB        DB
	Cors      Cors
	Session   Session
	Oauth     Oauth
	Store     Store
	RateLimit RateLimit
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
	Host       string `conf:"default:localhost"`
	Name       string `conf:"default:gamevault"`
	DisableTLS bool   `conf:"default:true"`
}

type Cors struct {
	Origin string `conf:"default:"`
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
}

type Oauth struct {
	DiscoveryTimeout time.Duration `conf:"default:30s"`
	LoginRedirectURL string        `conf:"default:/"`
	Google           OauthProvider
}

type OauthProvider struct {
	Client      string `conf:"default:"`
	Secret      string `conf:"default:,mask"`
	URL         string `conf:"default:https://accounts.google.com"`
	RedirectURL string `conf:"default:"`
}

// Store holds the storefront tunables the UI treats as constants: the tax
// rate applied at checkout and the upper bound of the shop's price slider.
type Store struct {
	TaxRate        float64 `conf:"default:0.10"`
	MaxFilterPrice float64 `conf:"default:100"`
}

type RateLimit struct {
	Burst       int     `conf:"default:5"`
	ExpiryMins  int     `conf:"default:10"`
	RequestsSec float64 `conf:"default:2"`
}
