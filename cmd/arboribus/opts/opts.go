package opts

import (
	"github.com/walteh/arboribus/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Source is the --source flag value; empty means "discover the
	// source root by climbing from the working directory"
	Source string
	// Debug enables debug logging
	Debug bool
	// Console is the user-facing console logger
	Console *log.Logger
}
