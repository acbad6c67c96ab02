// Package config loads reactor.json.
//
// # Configuration File Structure
//
//	{
//	  "addr": ":3000",
//	  "dev_mode": true,
//	  "log_level": "debug",
//	  "log_format": "json",
//	  "scheduler": {"max_passes": 100},
//	  "metrics": {"enabled": true, "namespace": "reactor"},
//	  "tracing": {"enabled": false},
//	  "export": {
//	    "bucket": "my-site",
//	    "prefix": "demo/",
//	    "region": "eu-west-1"
//	  }
//	}
//
// Command-line flags override file values.
package config
