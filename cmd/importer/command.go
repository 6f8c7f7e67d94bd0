package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/postboard/internal/app"
	apppost "github.com/xiebiao/postboard/internal/application/post"
	"github.com/xiebiao/postboard/internal/infrastructure/config"
	"github.com/xiebiao/postboard/internal/infrastructure/persistence/mysql"
)

const (
	fileFlag       = "file"
	batchSizeFlag  = "batch-size"
	bestEffortFlag = "best-effort"
	configDirFlag  = "config-dir"
)

type importFlags struct {
	file       string
	batchSize  int
	bestEffort bool
	configDir  string
}

// openDB 可在测试中替换为内存数据库
var openDB = app.NewDB

func newRootCommand() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "postboard-import",
		Short: "Import posts from a spreadsheet file",
		Long: `Import posts from an .xlsx, .xlsm or .csv file.

The first row must be a header containing title, content and name
(case-insensitive, any order). Rows are inserted in batches; by default the
whole file is imported in one transaction, --best-effort keeps the batches
committed before a failure.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var paths []string
			if flags.configDir != "" {
				paths = append(paths, flags.configDir)
			}
			cfg, err := config.Load(paths...)
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, cfg, flags); err != nil {
				return err
			}

			log, cleanupLog, err := app.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer cleanupLog()

			db, cleanupDB, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer cleanupDB()

			imported, err := runImport(cmd.Context(), cfg, db, flags.file)
			if err != nil {
				log.Error("import failed", zap.String("file", flags.file), zap.Error(err))
				return err
			}
			printResult(cmd.OutOrStdout(), flags.file, imported)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.file, fileFlag, "f", "", "spreadsheet to import (required)")
	cmd.Flags().IntVar(&flags.batchSize, batchSizeFlag, 0, "rows per insert batch (default from import.batch_size)")
	cmd.Flags().BoolVar(&flags.bestEffort, bestEffortFlag, false, "keep batches committed before a failure")
	cmd.Flags().StringVar(&flags.configDir, configDirFlag, "", "directory containing config.yaml")
	_ = cmd.MarkFlagRequired(fileFlag)

	return cmd
}

// applyFlags 命令行参数优先于配置文件
// 配置文件已在Load时校验，这里补做批大小上限检查
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags importFlags) error {
	if cmd.Flags().Changed(batchSizeFlag) && flags.batchSize > 0 {
		if flags.batchSize > config.MaxImportBatchSize {
			return fmt.Errorf("--%s不能超过%d: %d", batchSizeFlag, config.MaxImportBatchSize, flags.batchSize)
		}
		cfg.Import.BatchSize = flags.batchSize
	}
	if flags.bestEffort {
		cfg.Import.Transactional = false
	}
	return nil
}

// runImport 组装导入用例并执行
func runImport(ctx context.Context, cfg *config.Config, db *gorm.DB, file string) (int, error) {
	cache, cleanupCache, err := app.NewListCache(cfg)
	if err != nil {
		return 0, err
	}
	defer cleanupCache()

	publisher, cleanupPublisher, err := app.NewEventPublisher(cfg)
	if err != nil {
		return 0, err
	}
	defer cleanupPublisher()

	importer := app.NewImportPostsUseCase(
		mysql.NewPostRepository(db),
		mysql.NewTxManager(db),
		apppost.NewNotifier(cache, publisher),
		app.NewImportOptions(cfg),
	)

	resp, err := importer.Execute(ctx, apppost.ImportPostsRequest{Path: file})
	if err != nil {
		return 0, err
	}
	return resp.Imported, nil
}

func printResult(w io.Writer, file string, imported int) {
	fmt.Fprintf(w, "imported %d posts from %s\n", imported, file)
}
