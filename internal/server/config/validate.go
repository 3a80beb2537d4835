package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate reports every setting the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.EndpointAddrGRPC == "" {
		add("grpc endpoint address is empty")
	}
	if c.DatabaseDSN == "" {
		add("database dsn is empty")
	}
	if len(c.SecretKey) < 8 {
		add("secret key must be at least 8 bytes")
	}
	if c.AccessTokenValidityDuration <= 0 {
		add("access token validity must be positive, got %s", c.AccessTokenValidityDuration)
	}
	if c.RefreshTokenValidityDuration < c.AccessTokenValidityDuration {
		add("refresh token validity %s is shorter than access token validity %s",
			c.RefreshTokenValidityDuration, c.AccessTokenValidityDuration)
	}
	if c.LoginSkew <= 0 {
		add("login skew must be positive, got %s", c.LoginSkew)
	}
	if !logLevels[strings.ToLower(c.LogLevel)] {
		add("unknown log level %q", c.LogLevel)
	}
	if c.RateLimit < 0 {
		add("rate limit must not be negative, got %g", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		add("rate burst must be at least 1 when rate limiting is on")
	}

	if c.S3Bucket != "" {
		if c.S3Region == "" {
			add("s3 region is required for bucket %q", c.S3Bucket)
		}
		if u, err := url.Parse(c.S3BaseEndpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add("s3 base endpoint %q is not an http(s) url", c.S3BaseEndpoint)
		}
	}

	return errors.Join(errs...)
}
