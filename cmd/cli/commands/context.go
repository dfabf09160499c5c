package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/derbyops/crewcall/internal/config"
	"github.com/derbyops/crewcall/pkg/postgres"
)

// AppContext holds the dependencies shared by all commands
type AppContext struct {
	Cfg    *config.Config
	Store  *postgres.Store
	Logger *zap.Logger
	Ctx    context.Context
}
