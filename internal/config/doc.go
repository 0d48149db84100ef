// Package config provides configuration parsing for anchor projects.
//
// The configuration is stored in anchor.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "todo",
//	  "runtime": {
//	    "maxEffectIterations": 100
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "metricsPath": "/metrics",
//	    "livePath": "/live"
//	  },
//	  "demo": {
//	    "title": "Todos",
//	    "items": ["write spec", "ship it"]
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Address())
package config
