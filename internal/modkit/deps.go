package modkit

import (
	"bandwatch/internal/modkit/repokit"
	"bandwatch/internal/platform/config"
	"bandwatch/internal/platform/logger"
	"bandwatch/internal/platform/store"
)

// Deps holds the shared dependencies handed to every module.
// Pure wiring; optional backends may be nil and modules must check
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
