package opts

import (
	"github.com/walteh/ctxmigrate/pkg/config"
	"github.com/walteh/ctxmigrate/pkg/files"
	"github.com/walteh/ctxmigrate/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config  *config.Config
	Files   *files.Manager
	Console *log.Logger
}
