package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrProfileNotFound = goerr.New("profile file not found")
	ErrInvalidProfile  = goerr.New("invalid extraction profile")
)
