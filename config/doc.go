// Package config provides configuration loading and validation for seqkit
// commands.
//
// It uses Viper to load configuration from a YAML file, a .env file,
// environment variables and command-line flags, in increasing order of
// precedence.
//
// # Usage
//
//	var cfg config.ServiceConfig
//	err := config.LoadConfig("seqrun", &cfg, config.WithDefaults(config.Defaults()))
//
// Environment variables use the SEQKIT_ prefix with underscore-separated
// paths (e.g., SEQKIT_ENGINE_MAX_ITEMS).
package config
