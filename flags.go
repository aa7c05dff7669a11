package prerender

// Flags are the CLI arguments shared by every pipeline command.
type Flags struct {
	Config string `arg:"--config,env:PRERENDER_CONFIG" help:"Path to YAML config" default:"prerender.yaml"`
	Debug  bool   `arg:"--debug,env:PRERENDER_DEBUG" help:"Enable debug logs"`
}

// Load installs the default logger and loads the config named by f.
func (f Flags) Load() (Config, error) {
	SetupLogger(f.Debug)

	return LoadConfig(f.Config)
}
