// Command sensormon tails the board's serial console and re-emits each line
// through a structured logger, mapping the firmware's "Warn:"/"Error:"
// prefixes onto log levels. It reconnects with backoff when the board is
// unplugged or resets.
package main

import (
	"bufio"
	"flag"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

const (
	reconnectMin = time.Second
	reconnectMax = 30 * time.Second
)

func main() {
	configPath := flag.String("config", "sensormon.toml", "path to config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(level)
	log.WithFields(log.Fields{"port": cfg.Port, "baud": cfg.Baud}).Info("starting")

	backoff := reconnectMin
	for {
		if err := tail(cfg); err != nil {
			log.WithError(err).Warn("serial connection lost")
		}
		time.Sleep(backoff)
		backoff *= 2
		if backoff > reconnectMax {
			backoff = reconnectMax
		}
	}
}

// tail reads lines until the port errors out. A successful open resets the
// caller's backoff indirectly by returning only on failure after streaming.
func tail(cfg Config) error {
	port, err := serial.OpenPort(&serial.Config{Name: cfg.Port, Baud: cfg.Baud})
	if err != nil {
		return err
	}
	defer port.Close()
	log.WithField("port", cfg.Port).Info("connected")

	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		emit(scanner.Text())
	}
	return scanner.Err()
}

// emit maps a firmware console line onto the matching log level.
func emit(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	switch {
	case strings.HasPrefix(line, "Error:"):
		log.Error(strings.TrimSpace(strings.TrimPrefix(line, "Error:")))
	case strings.HasPrefix(line, "Warn:"):
		log.Warn(strings.TrimSpace(strings.TrimPrefix(line, "Warn:")))
	case strings.HasPrefix(line, "Info:"):
		log.Info(strings.TrimSpace(strings.TrimPrefix(line, "Info:")))
	default:
		log.Debug(line)
	}
}
