package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vibho-hcm/backend/config"
	"vibho-hcm/backend/pkg/database"
	applogger "vibho-hcm/backend/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		logger, err := applogger.NewLogger(&cfg.Log)
		if err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		defer logger.Sync()

		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		return database.RunMigrations(sqlDB, logger)
	},
}
