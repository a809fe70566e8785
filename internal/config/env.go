package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN  string
	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret      string
	HealthInterval time.Duration
	StrictContact  bool
	CORSOrigins    []string
}

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:8080",
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	env := Env{
		AppAddr:        appAddr,
		GinMode:        strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:          strings.TrimSpace(os.Getenv("DB_DSN")),
		DBUser:         envOr("DB_USER", "root"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         envOr("DB_HOST", "127.0.0.1:3306"),
		DBName:         envOr("DB_NAME", "ambulance_trips"),
		JWTSecret:      envOr("JWT_SECRET", "super-secret-key-change-me"),
		HealthInterval: 30 * time.Second,
		CORSOrigins:    defaultCORSOrigins,
	}

	if raw := strings.TrimSpace(os.Getenv("HEALTH_INTERVAL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			env.HealthInterval = d
		}
	}
	if raw := strings.TrimSpace(os.Getenv("STRICT_CONTACT_VALIDATION")); raw != "" {
		env.StrictContact, _ = strconv.ParseBool(raw)
	}
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		origins := []string{}
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			env.CORSOrigins = origins
		}
	}

	return env
}

// MySQLDSN returns DB_DSN when set, otherwise builds one from the DB_* parts.
func (e Env) MySQLDSN() string {
	if e.DBDSN != "" {
		return e.DBDSN
	}
	return e.DBUser + ":" + e.DBPass + "@tcp(" + e.DBHost + ")/" + e.DBName +
		"?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
