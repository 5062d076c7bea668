package config

import "log"

// Missing lists the required keys that are empty in cfg.
func (cfg Config) Missing() []string {
	var out []string
	if cfg.DatabaseURL == "" {
		out = append(out, "DATABASE_URL")
	}
	if len(cfg.JWTSecret) == 0 {
		out = append(out, "JWT_SECRET")
	}
	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		out = append(out, "ADMIN_USERNAME/ADMIN_PASSWORD")
	}
	return out
}

func MustValid(cfg Config) {
	if missing := cfg.Missing(); len(missing) > 0 {
		log.Fatalf("missing required env %v", missing)
	}
}
