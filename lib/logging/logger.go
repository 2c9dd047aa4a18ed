package logging

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/snuttools/snutt-proxy/lib/util"
)

// RedactHook masks the upstream access token anywhere it would leak
// into log output.
type RedactHook struct {
	Token string
}

func (h *RedactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *RedactHook) Fire(e *logrus.Entry) error {
	if h.Token == "" {
		return nil
	}
	e.Message = strings.ReplaceAll(e.Message, h.Token, ":token")
	for k, v := range e.Data {
		if s, ok := v.(string); ok {
			e.Data[k] = strings.ReplaceAll(s, h.Token, ":token")
		}
	}
	return nil
}

var hooks []logrus.Hook

func AddHook(hook logrus.Hook) {
	hooks = append(hooks, hook)
}

func GetLogger(subsystem string) *logrus.Entry {
	var logger = logrus.New()

	logLevel := util.EnvGet("LOG_LEVEL", "info")
	lvl, err := logrus.ParseLevel(logLevel)

	if err != nil {
		panic("Failed to parse log level")
	}

	logger.SetLevel(lvl)
	for _, hook := range hooks {
		logger.AddHook(hook)
	}
	return logger.WithField("subsystem", subsystem)
}
