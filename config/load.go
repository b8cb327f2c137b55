package config

import (
	"io/ioutil"
	"os"
	"path"

	"github.com/fernandosanchezjr/govalon/utils"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const FileName = "config.yaml"

func DefaultPath() string {
	return path.Join(utils.GetHomeFolder(), FileName)
}

// LoadConfig reads configPath over the defaults. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	c := Default()
	var data []byte
	var err error
	log.WithField("path", configPath).Debugln("Loading config")
	if data, err = ioutil.ReadFile(configPath); err != nil {
		if os.IsNotExist(err) {
			log.WithField("path", configPath).Warnln("Config file not found, using defaults")
			return c, c.Validate()
		}
		return nil, err
	}
	if err = yaml.UnmarshalStrict(data, c); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func SaveConfig(configPath string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path.Dir(configPath), 0700); err != nil {
		return err
	}
	return ioutil.WriteFile(configPath, data, 0600)
}
