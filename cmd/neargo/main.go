// Package main provides the neargo binary entry point.
// Neargo loads externally precomputed neighborhood files against an
// object corpus and answers neighbor queries from the command line.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/neargo"
	"github.com/hupe1980/neargo/blobstore"
	"github.com/hupe1980/neargo/blobstore/s3"
	"github.com/hupe1980/neargo/codec"
	"github.com/hupe1980/neargo/labelindex"
	"github.com/hupe1980/neargo/store"
)

const (
	Version = "0.1.0"
	appName = "neargo"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	objectsPath string
	s3Bucket    string
	s3Prefix    string
	logLevel    string
	parallelism int
	batchSize   int
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "External neighborhood loader",
		Long: `Neargo resolves externally precomputed neighbor files against an
object corpus. Each line of a neighbor file names a subject label followed
by its neighbor labels, separated by single spaces; gzip, zstd and lz4
compressed files are detected automatically.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.objectsPath, "objects", "o", "", "Object corpus file (YAML)")
	pf.StringVar(&flags.s3Bucket, "s3-bucket", "", "Read the neighbor file from this S3 bucket instead of the local filesystem")
	pf.StringVar(&flags.s3Prefix, "s3-prefix", "", "Key prefix inside the S3 bucket")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.IntVar(&flags.parallelism, "parallelism", 0, "Worker count for line resolution (0 = sequential)")
	pf.IntVar(&flags.batchSize, "batch-size", 0, "Lines per resolution batch (0 = default)")

	cmd.AddCommand(loadCmd(flags))
	cmd.AddCommand(queryCmd(flags))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func loadCmd(flags *globalFlags) *cobra.Command {
	var (
		snapshotPath string
		codecName    string
		noCompress   bool
	)

	cmd := &cobra.Command{
		Use:   "load <neighbor-file>",
		Short: "Load a neighbor file and print statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNeighborhood(cmd.Context(), flags, args[0])
			if err != nil {
				return err
			}

			stats := n.Stats()
			fmt.Printf("lines:     %d\n", stats.Lines)
			fmt.Printf("subjects:  %d\n", stats.Subjects)
			fmt.Printf("neighbors: %d\n", stats.Neighbors)
			fmt.Printf("warnings:  %d\n", stats.Warnings)

			if snapshotPath == "" {
				return nil
			}

			c, ok := codec.ByName(codecName)
			if !ok {
				return fmt.Errorf("unknown codec %q", codecName)
			}
			f, err := os.Create(snapshotPath)
			if err != nil {
				return fmt.Errorf("create snapshot: %w", err)
			}
			defer f.Close()

			if err := n.Store().Save(f, func(o *store.SaveOptions) {
				o.Codec = c
				o.DisableCompression = noCompress
			}); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}

			fmt.Printf("snapshot:  %s\n", snapshotPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Write a store snapshot to this file after loading")
	cmd.Flags().StringVar(&codecName, "codec", codec.Default.Name(), "Snapshot payload codec (json, go-json)")
	cmd.Flags().BoolVar(&noCompress, "no-compress", false, "Disable zstd compression of the snapshot payload")

	return cmd
}

func queryCmd(flags *globalFlags) *cobra.Command {
	var neighborFile string

	cmd := &cobra.Command{
		Use:   "query <label>...",
		Short: "Load a neighbor file and print the neighbors of the given labels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := loadNeighborhood(cmd.Context(), flags, neighborFile)
			if err != nil {
				return err
			}

			for _, lbl := range args {
				ns, ok := n.Resolve(lbl)
				if !ok {
					fmt.Printf("%s: no entry\n", lbl)
					continue
				}
				ids := make([]string, len(ns))
				for i, id := range ns {
					ids[i] = id.String()
				}
				fmt.Printf("%s: [%s]\n", lbl, strings.Join(ids, " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&neighborFile, "file", "f", "", "Neighbor file to load (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func loadNeighborhood(ctx context.Context, flags *globalFlags, name string) (*neargo.Neighborhood, error) {
	if flags.objectsPath == "" {
		return nil, fmt.Errorf("--objects is required")
	}

	src, err := labelindex.OpenYAMLSource(flags.objectsPath)
	if err != nil {
		return nil, fmt.Errorf("read object corpus: %w", err)
	}

	logger := neargo.NewTextLogger(parseLogLevel(flags.logLevel))
	opts := []neargo.Option{
		neargo.WithLogger(logger),
	}
	if flags.parallelism > 0 {
		opts = append(opts, neargo.WithParallelism(flags.parallelism))
	}
	if flags.batchSize > 0 {
		opts = append(opts, neargo.WithBatchSize(flags.batchSize))
	}

	if flags.s3Bucket != "" {
		var bs blobstore.BlobStore
		bs, err = s3.New(ctx, flags.s3Bucket, flags.s3Prefix)
		if err != nil {
			return nil, fmt.Errorf("connect to s3: %w", err)
		}
		return neargo.LoadBlob(ctx, src, bs, name, opts...)
	}

	return neargo.Load(ctx, src, name, opts...)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
