// File: pkg/observability/main_test.go
package observability_test

import (
	"os"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/pomkit/pkg/config"
	"github.com/xkilldash9x/pomkit/pkg/observability"
)

// TestMain installs a debug console logger for the package; individual tests
// reset and re-initialize it as needed.
func TestMain(m *testing.M) {
	logConfig := config.NewDefaultConfig().Logger
	logConfig.Level = "debug"
	logConfig.ServiceName = "test-suite"

	observability.Initialize(logConfig, zapcore.Lock(os.Stdout))

	exitCode := m.Run()

	observability.Sync()
	observability.ResetForTest()
	observability.ResetSinkForTest()
	os.Exit(exitCode)
}
