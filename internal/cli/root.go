package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/momreport/config"
)

var version = "dev"

// SetVersion 设置 --version 输出的版本号，通常在构建时注入。
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// NewRootCommand 创建 momreport 命令树。
func NewRootCommand() *cobra.Command {
	var (
		envFile string
		verbose bool
	)
	root := &cobra.Command{
		Use:           "momreport",
		Short:         "把会议与纪要排版为 PDF 报告",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			if verbose {
				cfg.LogLevel = "debug"
			}
			log, err := cfg.NewLogger()
			if err != nil {
				return err
			}
			cmd.SetContext(withApp(cmd.Context(), &app{cfg: cfg, log: log}))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = appFromContext(cmd.Context()).log.Sync()
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "额外加载的 .env 文件")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newMinutesCmd())
	root.AddCommand(newFilenameCmd())
	return root
}

// Execute 在 ctx 下运行命令行。
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("momreport: %w", err)
	}
	return nil
}
