package config

import "time"

// Config collects every runtime knob of the service. Values are parsed
// from the environment (KARINDERIA_* variables) or flags by conf.Parse.
type Config struct {
	Web     Web
	DB      DB
	Session Session
	Redis   Redis
	Receipt Receipt
	Cors    Cors
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:3000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User       string `conf:"default:postgres"`
	Password   string `conf:"default:postgres,mask"`
	Host       string `conf:"default:localhost"`
	Name       string `conf:"default:karinderia"`
	DisableTLS bool   `conf:"default:true"`
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
}

type Redis struct {
	Address  string        `conf:"default:localhost:6379"`
	Password string        `conf:"default:,mask"`
	DB       int           `conf:"default:0"`
	CacheTTL time.Duration `conf:"default:10m"`
}

// Receipt configures the object store holding GCash payment receipts.
type Receipt struct {
	Endpoint  string `conf:"default:localhost:9000"`
	AccessKey string `conf:"default:minioadmin"`
	SecretKey string `conf:"default:minioadmin,mask"`
	Bucket    string `conf:"default:receipts"`
	UseSSL    bool   `conf:"default:false"`
}

type Cors struct {
	Origin string
}
