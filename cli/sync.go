package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"familyfinance/database"
	"familyfinance/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// SyncOptions sync 命令参数
type SyncOptions struct {
	*RootOptions
	Year  int
	Month int
}

// NewSyncCommand 一次性全量重算某月预算，便于 cron 调用
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "按支出表重算某月预算",
		Long: `清零指定月份全部预算分类的已用金额，并按该月支出重新汇总。

Example:
  familyfinance sync --year 2025 --month 5`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.ConfigFile)
			if err != nil {
				return err
			}
			if err := database.Init(cfg); err != nil {
				return fmt.Errorf("数据库初始化失败: %w", err)
			}
			return runSync(cmd.Context(), database.DB, opts.Year, opts.Month, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.Year, "year", 0, "年份（必填）")
	cmd.Flags().IntVar(&opts.Month, "month", 0, "月份 1-12（必填）")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}

func runSync(ctx context.Context, db *gorm.DB, year, month int, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := service.NewReconciler(db).SyncPeriod(ctx, year, month)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
