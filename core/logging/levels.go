package logging

import (
	"cmp"
	"os"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the prefix of environment variables that configure log levels.
// HISTCOUNT_LOG sets the default level; HISTCOUNT_LOG_<Pkg> overrides it for one package.
const EnvPrefix = "HISTCOUNT_LOG"

const defaultLetter = 'I'

// letterLevels maps the first letter of a level name to a zap level.
// Fatal and none suppress everything below DPanic, which panics only in development.
var letterLevels = map[byte]zapcore.Level{
	'V': zapcore.DebugLevel,
	'D': zapcore.DebugLevel,
	'I': zapcore.InfoLevel,
	'W': zapcore.WarnLevel,
	'E': zapcore.ErrorLevel,
	'P': zapcore.DPanicLevel,
	'F': zapcore.DPanicLevel,
	'N': zapcore.DPanicLevel,
}

// parseLetter returns the level letter and zap level selected by input.
// Empty or unrecognized input selects info.
func parseLetter(input string) (byte, zapcore.Level) {
	if input != "" {
		letter := strings.ToUpper(input[:1])[0]
		if zl, ok := letterLevels[letter]; ok {
			return letter, zl
		}
	}
	return defaultLetter, letterLevels[defaultLetter]
}

// PkgLevel represents log level of a package.
type PkgLevel struct {
	pkg string
	lvl byte
	al  zap.AtomicLevel
	cb  func()
}

// Package returns package name.
func (pl PkgLevel) Package() string {
	return pl.pkg
}

// Level returns the level letter, such as 'D' or 'W'.
func (pl PkgLevel) Level() byte {
	return pl.lvl
}

// ZapLevel returns the minimum enabled zap level.
func (pl PkgLevel) ZapLevel() zapcore.Level {
	return pl.al.Level()
}

// SetCallback sets a callback for level changing.
func (pl *PkgLevel) SetCallback(cb func()) {
	pl.cb = cb
}

// SetLevel assigns log level.
// The first letter of input selects the level: V/D=debug, I=info, W=warn, E=error, P/F/N=fatal only.
func (pl *PkgLevel) SetLevel(input string) {
	var zl zapcore.Level
	pl.lvl, zl = parseLetter(input)
	pl.al.SetLevel(zl)
	if pl.cb != nil {
		pl.cb()
	}
}

var (
	pkgLevelsLock sync.Mutex
	pkgLevels     = map[string]*PkgLevel{}
)

// ListLevels returns all package levels, sorted by package name.
func ListLevels() (list []PkgLevel) {
	pkgLevelsLock.Lock()
	defer pkgLevelsLock.Unlock()
	for _, pl := range pkgLevels {
		list = append(list, *pl)
	}
	slices.SortFunc(list, func(a, b PkgLevel) int { return cmp.Compare(a.pkg, b.pkg) })
	return list
}

// FindLevel returns package log level object, or nil if the package has no logger.
func FindLevel(pkg string) *PkgLevel {
	pkgLevelsLock.Lock()
	defer pkgLevelsLock.Unlock()
	return pkgLevels[pkg]
}

// GetLevel finds or creates package log level object.
// A new object takes its initial level from the environment.
func GetLevel(pkg string) *PkgLevel {
	pkgLevelsLock.Lock()
	defer pkgLevelsLock.Unlock()
	if pl := pkgLevels[pkg]; pl != nil {
		return pl
	}

	pl := &PkgLevel{pkg: pkg, al: zap.NewAtomicLevel()}
	pl.SetLevel(envLevel(pkg))
	pkgLevels[pkg] = pl
	return pl
}

func envLevel(pkg string) string {
	if v, ok := os.LookupEnv(EnvPrefix + "_" + pkg); ok {
		return v
	}
	return os.Getenv(EnvPrefix)
}
