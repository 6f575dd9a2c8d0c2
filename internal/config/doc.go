// Package config loads the monolith.yaml configuration file.
//
// Every field is optional; missing fields take the defaults of the server
// package. Durations use Go syntax ("30s", "1m30s").
//
// # Configuration File Structure
//
//	server:
//	  address: ":8080"
//	  path: /ui
//	  read_buffer_size: 4096
//	  write_buffer_size: 4096
//	  allowed_origins:
//	    - https://app.example.com
//	  shutdown_timeout: 30s
//	session:
//	  read_timeout: 60s
//	  write_timeout: 10s
//	  ping_interval: 30s
//	  max_message_size: 65536
//	  max_pending_commands: 1024
//	dispatcher:
//	  accept_queue: 100
//	  event_buffer: 256
//	log:
//	  level: info
//	  format: auto
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	d := server.NewDispatcher(cfg.ToDispatcherConfig())
//	srv := server.New(cfg.ToServerConfig(), d)
package config
