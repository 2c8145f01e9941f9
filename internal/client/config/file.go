package config

import (
	"github.com/dmitrijs2005/studentcrm/internal/flagx"
	"github.com/dmitrijs2005/studentcrm/internal/timex"
)

type fileConfig struct {
	ServerURL      *string         `json:"server_url" yaml:"server_url"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
}

func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	var fc fileConfig
	if err := flagx.DecodeConfigFile(path, &fc); err != nil {
		return err
	}

	if fc.ServerURL != nil {
		cfg.ServerURL = *fc.ServerURL
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	return nil
}
