// Package config loads and validates the parser daemon configuration.
//
// Configuration is read from a TOML file (or YAML when the file ends in
// .yaml/.yml). Option names follow the daemon's historical INI keys:
//
//	[parse]
//	thread_sleep = 2.0
//	inbound_dir = "/data/inbound"
//	cells_to_extract = ["B1", "B2", "B10"]
//	cell_order = ["B10", "B1", "B2", "B10"]
//
//	[cell_map]
//	B10 = ["name", "description"]
//
// Load applies defaults, normalises and validates; any problem is reported as
// a *ConfigurationError and must stop the daemon before it touches a file.
package config
