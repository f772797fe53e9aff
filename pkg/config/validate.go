package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/restaurant/pkg/logging"
)

var DBDrivers = []string{"postgres", "sqlite"}

// Validate reports every missing or malformed setting at once.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(DBDrivers, c.DBDriver) {
		errs = append(errs, fmt.Errorf("env DB_DRIVER=%q must be one of: %s", c.DBDriver, strings.Join(DBDrivers, ", ")))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, missing("DATABASE_URL"))
	}
	if len(c.JWTSecret) == 0 {
		errs = append(errs, missing("JWT_SECRET"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("env LOG_LEVEL: %w (want one of: %s)", err, strings.Join(logging.Levels, ", ")))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("env SERVER_PORT=%d is out of range", c.ServerPort))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("env TOKEN_TTL_HOURS must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("env BCRYPT_COST=%d must be within %d..%d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("env ADMIN_USERNAME and ADMIN_PASSWORD must be set together"))
	}
	return errors.Join(errs...)
}

func missing(env string) error {
	return fmt.Errorf("missing required env %s", env)
}
