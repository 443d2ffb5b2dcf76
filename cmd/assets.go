/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/exercise-tracker/apiserver/internal/storage"
	"github.com/spf13/cobra"
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Manage static assets",
}

var assetsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Upload the landing page and public files to the asset bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Storage.Backend == "" || cfg.Storage.Backend == "local" {
			return fmt.Errorf("assets sync needs STORAGE_BACKEND=minio or gcs")
		}

		ctx := cmd.Context()
		bucket, err := storage.Open(ctx, cfg.Storage, cfg.StaticDir)
		if err != nil {
			return err
		}
		if err := bucket.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("ensure bucket %s: %w", bucket.Bucket(), err)
		}

		index := filepath.Join(cfg.ViewsDir, storage.IndexKey)
		if err := storage.SyncFile(ctx, bucket, index, storage.IndexKey); err != nil {
			return fmt.Errorf("upload %s: %w", index, err)
		}
		count, err := storage.SyncDir(ctx, bucket, cfg.StaticDir, storage.PublicPrefix)
		if err != nil {
			return fmt.Errorf("upload %s: %w", cfg.StaticDir, err)
		}

		log.Info("assets synced", "bucket", bucket.Bucket(), "files", count+1)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assetsCmd)
	assetsCmd.AddCommand(assetsSyncCmd)
}
