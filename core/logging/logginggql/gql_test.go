package logginggql_test

import (
	"context"
	"testing"

	"github.com/usnistgov/histcount/core/gqlserver"
	"github.com/usnistgov/histcount/core/logging"
	_ "github.com/usnistgov/histcount/core/logging/logginggql"
	"github.com/usnistgov/histcount/core/testenv"
)

var makeAR = testenv.MakeAR

func TestLoggers(t *testing.T) {
	assert, require := makeAR(t)

	logging.New("LoggingGqlTest")

	res := gqlserver.Do(context.Background(), `{ loggers { package level minLevel } }`, nil, nil)
	require.Empty(res.Errors)
	assert.Contains(testenv.ToJSON(res.Data), `{"level":"I","minLevel":"info","package":"LoggingGqlTest"}`)

	res = gqlserver.Do(context.Background(), `mutation { setLogLevel(package: "LoggingGqlTest", level: "debug") { level } }`, nil, nil)
	require.Empty(res.Errors)
	assert.Equal(byte('D'), logging.FindLevel("LoggingGqlTest").Level())

	res = gqlserver.Do(context.Background(), `mutation { setLogLevel(package: "NoSuchPackage", level: "debug") { level } }`, nil, nil)
	assert.NotEmpty(res.Errors)
}
