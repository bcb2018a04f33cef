package main

import (
	"fmt"

	"github.com/sagarc03/testconfig/config"
)

// loadProvider builds the provider from the persistent flags.
func loadProvider() (*config.Provider, error) {
	p, err := config.Load(config.Options{
		Files:      configFiles,
		EnvPrefix:  envPrefix,
		Properties: properties,
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return p, nil
}
