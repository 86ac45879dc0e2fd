// Package config manages user-level settings stored at ~/.blockreg/config.yaml.
// It resolves the base directory, the build and source tree locations, the
// manifest file name, scan ignore globs, the index path, and the log level
// from flags, BLOCKREG_* environment variables, the config file, and defaults.
package config
