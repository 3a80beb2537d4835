// Package config loads runtime configuration for the timevault CLI.
//
// Values come from built-in defaults, then an optional JSON file named by
// -c/-config or $TIMEVAULT_CONFIG, then flags:
//
//	-a host:port  vault gRPC endpoint
//	-f path       profile database (default <user config dir>/timevault/profile.db)
//	-t duration   request timeout, e.g. 10s
//	-i duration   online status check interval, 0 disables
//
// The JSON file uses the same settings:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "profile_path": "/home/me/.config/timevault/profile.db",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
package config
