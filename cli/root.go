package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Version 版本号
const Version = "1.0.0"

// RootOptions 全局参数
type RootOptions struct {
	ConfigFile string
}

// NewRootCommand 创建根命令
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "familyfinance",
		Short:   "家庭记账服务",
		Long:    "家庭收支记账与月度预算管理服务，支出变更时可同步预算已用金额。",
		Version: Version,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "外部配置文件路径（可选）")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))

	return cmd
}

// setupLogger 设置默认 slog 日志，标准库 log 的输出也会经过该 handler
func setupLogger(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
}
