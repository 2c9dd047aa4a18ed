package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestRedactHookMasksToken(t *testing.T) {
	hook := &RedactHook{Token: "super-secret-token"}
	entry := &logrus.Entry{
		Message: "upstream call failed with token super-secret-token",
		Data: logrus.Fields{
			"header": "x-access-token: super-secret-token",
			"status": 502,
		},
	}

	err := hook.Fire(entry)

	assert.NoError(t, err)
	assert.Equal(t, "upstream call failed with token :token", entry.Message)
	assert.Equal(t, "x-access-token: :token", entry.Data["header"])
	assert.Equal(t, 502, entry.Data["status"])
}

func TestRedactHookNoopsWithoutToken(t *testing.T) {
	hook := &RedactHook{}
	entry := &logrus.Entry{Message: "nothing to hide"}

	err := hook.Fire(entry)

	assert.NoError(t, err)
	assert.Equal(t, "nothing to hide", entry.Message)
}

func TestGetLoggerSetsSubsystemField(t *testing.T) {
	entry := GetLogger("test")
	assert.Equal(t, "test", entry.Data["subsystem"])
}
