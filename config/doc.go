// Package config handles application configuration loading and validation.
//
// Configuration is read from a YAML file and validated using struct tags.
// Every setting has a default, so running without a config file is valid.
package config
