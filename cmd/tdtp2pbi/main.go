package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ruslano69/tdtp-powerbi/pkg/exporter"
	"github.com/ruslano69/tdtp-powerbi/pkg/powerbi"
	"github.com/ruslano69/tdtp-powerbi/pkg/resultlog"
	"github.com/ruslano69/tdtp-powerbi/pkg/sources"

	// Source adapters register themselves on import
	_ "github.com/ruslano69/tdtp-powerbi/pkg/sources/csv"
	_ "github.com/ruslano69/tdtp-powerbi/pkg/sources/sqldb"
	_ "github.com/ruslano69/tdtp-powerbi/pkg/sources/xlsx"
)

func main() {
	ctx := context.Background()

	flags := ParseFlags()

	if *flags.Version {
		PrintVersion()
		os.Exit(0)
	}
	if *flags.Help {
		PrintHelp()
		os.Exit(0)
	}
	if *flags.CreateConfig != "" {
		createConfigTemplate(*flags.CreateConfig)
		return
	}

	config, err := LoadConfig(*flags.Config)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	flags.Apply(config)

	startedAt := time.Now()
	summary, exportErr := runExport(ctx, config)

	// Publish the outcome (success or failure) for orchestrators
	if config.ResultLog.Enabled() {
		publisher := resultlog.NewRedisPublisher(config.ResultLog)
		jobName := config.PowerBI.Dataset
		if err := publisher.Publish(ctx, jobName, startedAt, summary, exportErr); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: result log publish failed: %v\n", err)
		}
		publisher.Close()
	}

	if exportErr != nil {
		fatal("%v", exportErr)
	}
	fmt.Printf("✓ Exported %d rows in %d batches\n", summary.RowsExported, summary.Flushes)
}

// runExport drives a single source-to-dataset export pass
func runExport(ctx context.Context, config *Config) (*exporter.Summary, error) {
	src, err := sources.New(ctx, config.SourceSettings())
	if err != nil {
		return nil, err
	}
	defer src.Close()

	schema, err := src.Schema(ctx)
	if err != nil {
		return nil, err
	}

	exp, err := exporter.New(ctx, config.ExporterSettings(), powerbi.ConsoleLogger{})
	if err != nil {
		return nil, err
	}
	if err := exp.Open(ctx, schema); err != nil {
		return nil, err
	}

	err = src.Rows(ctx, func(row []any) error {
		return exp.WriteRow(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	return exp.Close(ctx)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
