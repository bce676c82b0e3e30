package opts

import (
	"github.com/walteh/apirewrite/pkg/config"
	"github.com/walteh/apirewrite/pkg/log"
)

// RootOpts contains shared options used by all commands. It is filled in
// before any command runs.
type RootOpts struct {
	Config *config.Config
	Logger *log.Logger
}
