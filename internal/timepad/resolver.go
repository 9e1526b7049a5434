package timepad

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// EnvTimepad and EnvLogDir name the environment variables consulted by ResolveDir.
	EnvTimepad = "TIMEPAD"
	EnvLogDir  = "LOG_DIR"

	// LocalDirName is the conventional per-project entry directory under cwd.
	LocalDirName = ".timepad"
)

var varRefRe = regexp.MustCompile(`\$(\w+|\{[^}]*\})`)

// Flags holds the command line inputs to directory resolution.
type Flags struct {
	Dir    string // --dir
	UseCwd bool   // -c / --cwd
}

// Environment is a snapshot of the process context used by ResolveDir.
// It is captured once per invocation so that resolution stays a pure function.
type Environment struct {
	Vars      map[string]string
	Cwd       string
	Home      string
	DirExists func(path string) bool
}

// Getenv returns the value of an environment variable from the snapshot.
func (e Environment) Getenv(key string) string {
	return e.Vars[key]
}

// ResolveDir picks the base directory. First match wins:
// --dir, --cwd, $TIMEPAD, $LOG_DIR, <cwd>/.timepad if it exists, cwd.
// The returned path is absolute and clean. No directory is created.
func ResolveDir(flags Flags, env Environment) string {
	if flags.Dir != "" {
		return env.absolute(flags.Dir)
	}
	if flags.UseCwd {
		return env.absolute(env.Cwd)
	}
	for _, key := range []string{EnvTimepad, EnvLogDir} {
		if v := env.Getenv(key); v != "" {
			return env.absolute(v)
		}
	}
	local := env.absolute(filepath.Join(env.Cwd, LocalDirName))
	if env.DirExists != nil && env.DirExists(local) {
		return local
	}
	return env.absolute(env.Cwd)
}

// Expand substitutes $VAR and ${VAR} from the snapshot and a leading "~" with
// Home. References to variables missing from the snapshot, and a "$" that
// starts no reference, are kept as written.
func (e Environment) Expand(path string) string {
	path = varRefRe.ReplaceAllStringFunc(path, func(ref string) string {
		key := strings.TrimSuffix(strings.TrimPrefix(ref[1:], "{"), "}")
		if v, ok := e.Vars[key]; ok {
			return v
		}
		return ref
	})
	if path == "~" {
		return e.Home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return filepath.Join(e.Home, path[2:])
	}
	return path
}

func (e Environment) absolute(path string) string {
	path = e.Expand(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.Cwd, path)
	}
	return filepath.Clean(path)
}
