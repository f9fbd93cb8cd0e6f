package ssd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _ssdconfig{}
)

// _ssdconfig is a "hidden" struct, just use `ssdConfig`.
type _ssdconfig struct {
	SPK    bool
	SPKDir string
}

// kernelPath resolves a kernel file name against the configured directory.
func (c _ssdconfig) kernelPath(name string) string {
	return filepath.Join(c.SPKDir, name)
}

// ssdConfig returns the ssd configuration. The configuration file conf.toml
// is read from the directory named by the SSD_CONFIG environment variable.
// Without a configuration, the precomputed kernels are disabled and the
// ephemeris service falls back to the approximate Keplerian source.
func ssdConfig() _ssdconfig {
	if cfgLoaded {
		return config
	}
	confPath := os.Getenv("SSD_CONFIG")
	if confPath == "" {
		cfgLoaded = true
		return config
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}
	config = _ssdconfig{
		SPK:    viper.GetBool("SPK.enabled"),
		SPKDir: viper.GetString("SPK.directory"),
	}
	cfgLoaded = true
	return config
}
