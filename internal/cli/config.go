package cli

import "github.com/regenrek/paneldeck/internal/panelcfg"

// loadAppConfig reads ~/.paneldeck/config.toml. A missing file yields the
// defaults; a malformed one is an error.
func loadAppConfig() (panelcfg.Config, error) {
	path, err := panelcfg.DefaultPath()
	if err != nil {
		return panelcfg.Defaults(), nil
	}
	return panelcfg.NewLoader(path).Load()
}
