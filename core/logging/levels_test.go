package logging_test

import (
	"testing"

	"github.com/usnistgov/histcount/core/logging"
	"github.com/usnistgov/histcount/core/testenv"
	"go.uber.org/zap/zapcore"
)

var makeAR = testenv.MakeAR

func TestPkgLevel(t *testing.T) {
	assert, require := makeAR(t)

	t.Setenv("HISTCOUNT_LOG", "W")
	t.Setenv("HISTCOUNT_LOG_LevelsTestB", "debug")

	logger := logging.New("LevelsTestA")
	assert.False(logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(logger.Core().Enabled(zapcore.WarnLevel))

	plA := logging.FindLevel("LevelsTestA")
	require.NotNil(plA)
	assert.EqualValues('W', plA.Level())

	plB := logging.GetLevel("LevelsTestB")
	assert.EqualValues('D', plB.Level())

	nCallbacks := 0
	plA.SetCallback(func() { nCallbacks++ })
	plA.SetLevel("E")
	assert.EqualValues('E', plA.Level())
	assert.Equal(zapcore.ErrorLevel, plA.ZapLevel())
	assert.False(logger.Core().Enabled(zapcore.WarnLevel))
	plA.SetLevel("panic")
	assert.EqualValues('P', plA.Level())
	assert.False(logger.Core().Enabled(zapcore.ErrorLevel))
	plA.SetLevel("bogus")
	assert.EqualValues('I', plA.Level())
	assert.True(logger.Core().Enabled(zapcore.InfoLevel))
	assert.Equal(3, nCallbacks)

	var names []string
	for _, pl := range logging.ListLevels() {
		names = append(names, pl.Package())
	}
	assert.Subset(names, []string{"LevelsTestA", "LevelsTestB"})
	assert.IsIncreasing(names)
}
