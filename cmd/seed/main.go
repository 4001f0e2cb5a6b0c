// Command seed fills the configured storage with demo analyses.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"tennis-analyzer/internal/analyzer"
	"tennis-analyzer/internal/config"
	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/filestore"
	"tennis-analyzer/internal/logger"
	"tennis-analyzer/internal/repository"
	"tennis-analyzer/internal/validation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	count       int
	concurrency int
	days        int
)

// demoUploads are cycled through; the binaries are placeholders.
var demoUploads = []struct {
	name     string
	mimeType string
}{
	{"forehand.mp4", "video/mp4"},
	{"backhand.mov", "video/quicktime"},
	{"serve.jpg", "image/jpeg"},
	{"volley.png", "image/png"},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "seed",
	Short:        "Create demo analyses for the demo user",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFlags(); err != nil {
			return err
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := logger.Initialize(cfg.Logger); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		defer logger.Sync()

		ctx := cmd.Context()
		storage, err := repository.NewStorageFromConfig(ctx, cfg)
		if err != nil {
			return err
		}
		defer storage.Close()
		if storage.Kind() == config.DriverMemory {
			logger.Get().Warn("Seeding the in-memory engine; records are lost when this command exits")
		}

		files, err := filestore.NewLocalStore(cfg.Uploads.Dir)
		if err != nil {
			return err
		}

		created, err := seedAnalyses(ctx, storage, files, analyzer.New())
		logger.Get().Info("Seeding finished", zap.Int64("created", created), zap.Int("requested", count))
		return err
	},
}

func checkFlags() error {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"count", count},
		{"concurrency", concurrency},
		{"days", days},
	} {
		if f.value < 1 {
			return fmt.Errorf("--%s must be at least 1, got %d", f.name, f.value)
		}
	}
	return nil
}

func seedAnalyses(ctx context.Context, storage domain.Storage, files filestore.FileStore, gen domain.AnalysisGenerator) (int64, error) {
	demo, err := storage.GetUserByUsername(ctx, domain.DemoUsername)
	if err != nil {
		return 0, err
	}
	if demo == nil {
		return 0, fmt.Errorf("demo user %q is missing", domain.DemoUsername)
	}

	var created atomic.Int64
	now := time.Now().UTC()
	validator := validation.NewValidator(0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			upload := demoUploads[i%len(demoUploads)]
			payload := []byte(fmt.Sprintf("demo upload %d", i))

			name, written, err := files.Save(bytes.NewReader(payload), upload.name)
			if err != nil {
				return fmt.Errorf("saving demo file %d: %w", i, err)
			}

			kind, _ := domain.MediaKindFor(upload.mimeType)
			out, err := gen.Generate(gctx, domain.FileMeta{FileName: name, MimeType: upload.mimeType, Size: written, Kind: kind})
			if err != nil {
				_ = files.Delete(name)
				return err
			}

			actionDate := now.AddDate(0, 0, -(i % max(days, 1)))
			rec := &domain.NewAnalysis{
				UserID:           &demo.ID,
				FileName:         name,
				OriginalFileName: upload.name,
				FileType:         kind,
				MimeType:         upload.mimeType,
				FileSize:         written,
				ActionType:       out.ActionType,
				ActionStage:      out.ActionStage,
				Scores:           out.Scores,
				Feedback:         out.Feedback,
				Keypoints:        out.Keypoints,
				Connections:      out.Connections,
				Observations:     out.Observations,
				Suggestions:      out.Suggestions,
				ActionDate:       &actionDate,
			}
			if errs := validator.ValidateInsert(rec); len(errs) > 0 {
				_ = files.Delete(name)
				return fmt.Errorf("demo analysis %d is invalid: %w", i, errs)
			}
			if _, err := storage.CreateAnalysis(gctx, rec); err != nil {
				_ = files.Delete(name)
				return fmt.Errorf("creating demo analysis %d: %w", i, err)
			}
			created.Add(1)
			return nil
		})
	}
	err = g.Wait()
	return created.Load(), err
}

func init() {
	rootCmd.Flags().IntVar(&count, "count", 20, "number of analyses to create")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 4, "maximum concurrent inserts")
	rootCmd.Flags().IntVar(&days, "days", 30, "spread action dates over this many past days")
}
