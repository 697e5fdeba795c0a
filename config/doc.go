// Package config loads cypherstream settings.
//
// Settings come from an optional YAML file, an optional .env file and
// prefixed environment variables, later sources overriding earlier ones.
// The YAML file is located through, in order: an explicit path, the
// CYPHERSTREAM_SETTINGS environment variable, ./cypherstream.yml, and
// $XDG_CONFIG_HOME/cypherstream/config.yml.
//
// # Usage
//
//	var s Settings
//	if err := config.LoadConfig("cypherstream", &s); err != nil {
//	    return err
//	}
package config
