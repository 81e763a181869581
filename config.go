package orbital

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _orbitalconfig{}
)

// _orbitalconfig is a "hidden" struct, just use `orbitalConfig`
type _orbitalconfig struct {
	outputDir string
	tolerance float64
}

// orbitalConfig returns the harness configuration, loaded once from the
// conf.toml in the directory named by ORBITAL_CONFIG.
func orbitalConfig() _orbitalconfig {
	if cfgLoaded {
		return config
	}
	confPath := os.Getenv("ORBITAL_CONFIG")
	if confPath == "" {
		panic("environment variable `ORBITAL_CONFIG` is missing or empty")
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}

	outputDir := viper.GetString("general.output_path")
	tolerance := viper.GetFloat64("xval.tolerance")
	if tolerance == 0 {
		tolerance = defaultXValTol
	}

	cfgLoaded = true
	config = _orbitalconfig{outputDir: outputDir, tolerance: tolerance}
	return config
}

// ConfiguredTolerance returns the default cross validation tolerance from
// the configuration.
func ConfiguredTolerance() float64 {
	return orbitalConfig().tolerance
}
