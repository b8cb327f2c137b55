package main

import (
	"github.com/alecthomas/kong"
	"github.com/fernandosanchezjr/govalon/config"
	"github.com/fernandosanchezjr/govalon/governor"
	"github.com/fernandosanchezjr/govalon/logging"
	"github.com/fernandosanchezjr/govalon/utils"
	log "github.com/sirupsen/logrus"
)

func loadConfig() (*config.Config, string) {
	configPath := cli.Config
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.WithError(err).WithField("path", configPath).Fatal("Error loading config")
	}
	if cli.Transport != "" {
		cfg.Transport = cli.Transport
	}
	if cli.Port != "" {
		cfg.Port = cli.Port
	}
	if cli.LogTraffic {
		cfg.LogTraffic = true
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	return cfg, configPath
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("govalon"),
		kong.Description("Control a Valon 5007 dual frequency synthesizer."),
		kong.UsageOnError(),
	)
	utils.SetHomeFolder(cli.HomeFolder)
	cfg, configPath := loadConfig()
	logging.SetupLogger(cfg.LogLevel, cli.LogFile)
	if ctx.Command() == "probe" {
		if err := ctx.Run(); err != nil {
			log.WithError(err).Fatal("Probe failed")
		}
		return
	}
	gov := governor.NewGovernor(cfg, configPath)
	if err := gov.Open(); err != nil {
		log.WithError(err).Fatal("Error opening synthesizer")
	}
	err := ctx.Run(gov)
	gov.Stop()
	if err != nil {
		log.WithError(err).Fatal("Command failed")
	}
}
