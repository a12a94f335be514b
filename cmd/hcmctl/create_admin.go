package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"vibho-hcm/backend/config"
	"vibho-hcm/backend/internal/model"
	"vibho-hcm/backend/internal/repository"
	"vibho-hcm/backend/pkg/database"
	applogger "vibho-hcm/backend/pkg/logger"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "创建初始管理员账户（含默认部门）",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" || adminPassword == "" {
			return fmt.Errorf("--email 与 --password 不能为空")
		}
		if len(adminPassword) < 6 {
			return fmt.Errorf("密码长度至少 6 位")
		}

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
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}()

		repo := repository.NewRepository(db)
		ctx := context.Background()

		// 邮箱占用检查
		if _, err := repo.User.GetByEmail(ctx, adminEmail); err == nil {
			return fmt.Errorf("邮箱 %s 已被注册", adminEmail)
		}

		// 管理员挂在默认部门下，部门不存在则创建
		depts, err := repo.Department.List(ctx)
		if err != nil {
			return err
		}
		var deptID string
		for _, d := range depts {
			if d.Name == "管理部" {
				deptID = d.DepartmentID
				break
			}
		}
		if deptID == "" {
			dept := &model.Department{Name: "管理部", Description: "系统初始部门"}
			if err := repo.Department.Create(ctx, dept); err != nil {
				return err
			}
			deptID = dept.DepartmentID
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		admin := &model.User{
			Name:         adminName,
			Email:        adminEmail,
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
			DepartmentID: deptID,
		}
		if err := repo.User.Create(ctx, admin); err != nil {
			return err
		}

		fmt.Printf("管理员已创建: %s (%s)\n", admin.Name, admin.Email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "系统管理员", "管理员姓名")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "管理员邮箱")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "管理员初始密码")
}
