package logging

import (
	"io"
	"os"
	"path"

	"github.com/fernandosanchezjr/govalon/utils"
	"github.com/sirupsen/logrus"
)

const LogPath = "logs"

var logFile *os.File

func getLogFile() *os.File {
	logFolder := utils.GetSubFolder(LogPath)
	f, err := os.OpenFile(path.Join(logFolder, "log.out"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logrus.Fatal("Error opening log file:", err)
		return nil
	} else {
		return f
	}
}

func exitHandler() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

// SetupLogger logs to stdout and, when toFile is set, to logs/log.out in the home folder.
func SetupLogger(level string, toFile bool) {
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	logrus.RegisterExitHandler(exitHandler)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	if !toFile {
		logrus.SetOutput(os.Stdout)
		return
	}
	logFile = getLogFile()
	logrus.SetOutput(io.MultiWriter(logFile, os.Stdout))
}
