package main

import (
	"log/slog"
	"os"

	"github.com/brensch/whoson/config"
	"gopkg.in/yaml.v3"
)

func main() {
	slog.Info("generating empty config")
	var emptyConf config.AppConfig
	emptyConf.Announce.Channel = "testing"
	emptyConf.Command.Phrase = "who on?"
	emptyConf.Log.Level = "debug"

	confYAML, err := yaml.Marshal(emptyConf)
	if err != nil {
		slog.Error("failed to marshal empty yaml", "err", err)
		return
	}

	err = os.WriteFile("./config.example.yaml", confYAML, 0644)
	if err != nil {
		slog.Error("failed to write blank conf to file", "err", err)
		return
	}
}
