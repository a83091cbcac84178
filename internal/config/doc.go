// Package config loads the engine's own settings — tab width, wrap
// mode, line ending, undo-tree size cap, clipboard helper program —
// from a TOML file. It intentionally covers only what the core engine
// reads itself; theming, keybinding layers, and live config-file
// watching belong to a UI layer this repository doesn't build.
package config
