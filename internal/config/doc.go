// Package config provides configuration parsing for vcommit projects.
//
// The configuration is stored in vcommit.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "demo",
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "scenario": {
//	    "dir": "scenarios",
//	    "document": "./shell.html",
//	    "container": "app"
//	  },
//	  "inspect": {
//	    "port": 7070,
//	    "host": "localhost"
//	  },
//	  "archive": {
//	    "location": "s3://journals/demo",
//	    "region": "eu-west-1"
//	  },
//	  "metrics": {
//	    "namespace": "vcommit"
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
//	fmt.Println("Inspector:", cfg.InspectAddress())
package config
