package config

import "errors"

var (
	// ErrNoConfigLoaded is returned by Reload and Watch when no config file
	// has ever been successfully Load-ed.
	ErrNoConfigLoaded = errors.New("config: no config file has been loaded")
)
