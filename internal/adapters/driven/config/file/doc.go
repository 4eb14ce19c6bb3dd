// Package file provides the file-based configuration adapter.
//
// Values resolve from the environment first, then the TOML file
// (~/.aptview/config.toml), then built-in defaults. A .env file in the
// working directory is loaded into the environment at startup.
package file
