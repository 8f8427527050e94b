package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitGeneral, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitConfig, ExitCode(ConfigError("loading configuration", nil)))
	assert.Equal(t, ExitParse, ExitCode(fmt.Errorf("wrapped: %w", ParseError("parsing spec", nil))))
	assert.Equal(t, ExitDBConnect, ExitCode(DBConnectError("connecting", errors.New("refused"))))

	err := GeneralError("running doctor", errors.New("timeout"))
	assert.Equal(t, "running doctor: timeout", err.Error())
}
