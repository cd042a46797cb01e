package postgres

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

type Config struct {
	Host            string        `env:"DB_HOST,required" validate:"required"`
	User            string        `env:"DB_USER,required" validate:"required"`
	Password        string        `env:"DB_PASSWORD,required"`
	Name            string        `env:"DB_NAME,required" validate:"required"`
	Port            int           `env:"DB_PORT,required" validate:"min=1,max=65535"`
	SSLMode         string        `env:"DB_SSL_MODE,default=disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE,default=false"`
	MaxConns        int32         `env:"DB_MAX_CONNS,default=10" validate:"min=1"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME,default=5m" validate:"min=0"`
	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT,default=10s" validate:"min=0"`
}

// DSN escapes the credentials, so passwords may contain URL reserved characters.
func (c Config) DSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return dsn.String()
}
