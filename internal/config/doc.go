// Package config holds the server configuration: built-in defaults, an
// optional YAML file and the IMAGE_LAYERS_LOG_LEVEL environment override.
package config
