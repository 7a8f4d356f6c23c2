package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/dcrodman/imgscramble/internal/core"
	"github.com/dcrodman/imgscramble/internal/core/data"
)

// app bundles the resources shared by the subcommands.
type app struct {
	cfg     *core.Config
	log     *logrus.Logger
	db      *gorm.DB
	closers []io.Closer
}

// setUp loads the configuration and logger and, when withLedger is set and a
// ledger engine is configured, opens the job database.
func setUp(cmd *cobra.Command, withLedger bool) (*app, error) {
	cfg, err := core.LoadConfig(ConfigFlag, cmd.Flags())
	if err != nil {
		return nil, errors.Wrap(err, "unable to load config")
	}

	logger, closer, err := core.NewLogger(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialize logger")
	}
	a := &app{cfg: cfg, log: logger, closers: []io.Closer{closer}}

	if withLedger && a.ledgerEnabled() {
		if a.db, err = a.openLedger(); err != nil {
			a.Close()
			return nil, errors.Wrap(err, "unable to open ledger")
		}
	}
	return a, nil
}

func (a *app) ledgerEnabled() bool {
	return strings.ToLower(a.cfg.Database.Engine) != "none"
}

func (a *app) openLedger() (*gorm.DB, error) {
	var dataSource string
	switch engine := strings.ToLower(a.cfg.Database.Engine); engine {
	case "sqlite":
		dataSource = a.cfg.QualifiedPath(a.cfg.Database.Filename)
	case "postgres":
		dataSource = a.cfg.DatabaseURL()
	default:
		return nil, fmt.Errorf("unsupported database engine: %s", engine)
	}
	a.log.WithField("engine", a.cfg.Database.Engine).Debug("opening ledger")
	return data.Open(a.cfg.Database.Engine, dataSource, a.log.IsLevelEnabled(logrus.TraceLevel))
}

// Close releases the ledger connection and log file.
func (a *app) Close() {
	if a.db != nil {
		if err := data.Close(a.db); err != nil {
			a.log.Warnf("error closing ledger: %v", err)
		}
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warnf("error closing %T: %v", c, err)
		}
	}
}
