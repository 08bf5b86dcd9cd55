// Package config loads curator's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/curator/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # TOML Format
//
//	api_url = "http://localhost:3000"
//	poll_interval = 60      # seconds
//	list_timeout = 10       # seconds
//	probe_timeout = 5       # seconds
//	delete_timeout = 10     # seconds
//	log_file = "~/.local/state/curator/curator.log"
//
//	[upload]
//	endpoint = "https://api.cloudinary.com"   # optional
//	cloud_name = "demo"
//	preset = "unsigned_gallery"
//	folder = "gallery"
//	max_bytes = 10000000
//	formats = ["png", "jpg", "jpeg", "gif", "webp"]
//	refresh_delay_ms = 1500
//
// Every field is optional. Negative durations and sizes are rejected.
// Uploads stay disabled until both cloud_name and preset are set.
//
// Missing config files are NOT an error. curator talks to a backend on
// localhost:3000 out of the box.
package config
