package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func InitLogger() {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	InfoLogger.SetLevel(logrus.InfoLevel)
	// Printf logs at info level; ErrorLogger is told apart by its stream.
	ErrorLogger.SetLevel(logrus.InfoLevel)
}

// SetLogFile mirrors both loggers into a rotating file.
func SetLogFile(path string) {
	if path == "" {
		return
	}
	if InfoLogger == nil || ErrorLogger == nil {
		InitLogger()
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     28, // days
		Compress:   true,
	}

	InfoLogger.SetOutput(io.MultiWriter(os.Stdout, rotator))
	ErrorLogger.SetOutput(io.MultiWriter(os.Stderr, rotator))
}
