// Package config loads pgline settings.
//
// Settings come from three places, later ones winning:
//
//  1. built-in defaults (Default)
//  2. a TOML file, usually ~/.config/pgline/config.toml
//  3. PGLINE_* environment variables
//
// A file looks like this:
//
//	[input]
//	ttimeout = "50ms"
//	timeout = "1s"
//
//	[output]
//	color_depth = "24"
//	mouse = false
//
//	[editing]
//	keymap_file = "~/.config/pgline/keys.yaml"
//
//	[log]
//	file = "/tmp/pgline.log"
//	level = "debug"
//
// Watcher reports changes to the keymap and Lua files so the application
// can reload bindings without restarting.
package config
