//go:build windows || plan9

package logging

import (
	"errors"

	log "github.com/sirupsen/logrus"
)

func newSyslogHook() (log.Hook, error) {
	return nil, errors.New("syslog is not supported on this platform")
}
