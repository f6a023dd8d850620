package main

import (
	"fmt"
	"os"

	"NexusFlow/internal/config"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app 各子命令共用的配置与日志
type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "nexus",
		Short:         "NexusFlow community platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			log, err := pkg.NewLogger(cfg.Log.Level, cfg.Log.File)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			a.cfg, a.log = cfg, log.With(zap.String("env", cfg.Env))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", os.Getenv("NEXUS_CONFIG"), "path to the yaml config file")

	root.AddCommand(newServeCmd(a), newMigrateCmd(a), newReconcileCmd(a))
	return root
}

// openDB 连接数据库，migrate 为 true 时同时建表
func (a *app) openDB(migrate bool) (*gorm.DB, func(), error) {
	db, err := rdb.Open(a.cfg.Database, a.log)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if migrate {
		if err := rdb.AutoMigrate(db); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return db, closeDB, nil
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(*cobra.Command, []string) error {
			_, closeDB, err := a.openDB(true)
			if err != nil {
				return err
			}
			defer closeDB()
			a.log.Info("database migrated", zap.String("driver", a.cfg.Database.Driver))
			return nil
		},
	}
}
