package opts

import (
	"github.com/ThousandsOfTies/home-teacher-core/pkg/config"
	"github.com/ThousandsOfTies/home-teacher-core/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config     *config.Config
	UserLogger *log.UserLogger
	Async      bool
}
