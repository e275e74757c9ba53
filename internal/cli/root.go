// Package cli holds the kong subcommands. Each command gets the shared
// Context built in main: the loaded configuration, the API client, and the
// local recents store.
package cli

import (
	"github.com/avaldiviar/colegio/internal/api"
	"github.com/avaldiviar/colegio/internal/config"
	"github.com/avaldiviar/colegio/internal/recents"
)

type Context struct {
	Config  config.Config
	Client  *api.Client
	Recents *recents.Store
}
