// Package logging sets up file-backed logrus loggers for the programs
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultMaxSize is the rotation threshold when none is configured
const DefaultMaxSize = 10 * 1024 * 1024

// Options selects where logs go
type Options struct {
	Debug   bool
	Persist bool // write Info and above to the file even without Debug
	Dir     string
	Name    string // file name without extension
	MaxSize int64
}

// Setup returns a logger writing to Dir/Name.log when Debug or Persist is set, otherwise one that discards
// Debug logs at DebugLevel, Persist alone at InfoLevel
// An existing file larger than MaxSize is renamed with a timestamp first
// The standard library logger is redirected to the same writer; stdout and stderr are never used
// The returned file is nil when logging is disabled
func Setup(opts Options) (*logrus.Logger, *os.File, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
		DisableColors:   true,
	})

	if !opts.Debug && !opts.Persist {
		logger.SetOutput(io.Discard)
		log.SetOutput(io.Discard)
		return logger, nil, nil
	}

	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, nil, errors.Wrap(err, "create log directory")
	}

	path := filepath.Join(opts.Dir, opts.Name+".log")
	if err := rotate(path, opts.MaxSize); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}

	logger.SetOutput(f)
	logger.SetLevel(logrus.InfoLevel)
	if opts.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	logger.WithField("path", path).Info("logging started")
	return logger, f, nil
}

func rotate(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "stat log file")
	}
	if info.Size() <= maxSize {
		return nil
	}

	ext := filepath.Ext(path)
	rotated := fmt.Sprintf("%s.%s%s", path[:len(path)-len(ext)], time.Now().Format("20060102-150405"), ext)
	return errors.Wrap(os.Rename(path, rotated), "rotate log file")
}
