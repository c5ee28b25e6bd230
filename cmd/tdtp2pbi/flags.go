package main

import "flag"

// Flags holds all command-line flags
type Flags struct {
	// Options
	Config    *string
	Dataset   *string
	Workspace *string
	Table     *string
	Overwrite *bool
	Truncate  *bool
	Buffer    *int

	// Config Creation
	CreateConfig *string

	// Misc
	Version *bool
	Help    *bool
}

// ParseFlags defines and parses all command-line flags
func ParseFlags() *Flags {
	flags := &Flags{
		Config:    flag.String("config", "tdtp2pbi.yaml", "Path to yaml config file"),
		Dataset:   flag.String("dataset", "", "Override target dataset name"),
		Workspace: flag.String("workspace", "", "Override target workspace name"),
		Table:     flag.String("table", "", "Override source table or sheet name"),
		Overwrite: flag.Bool("overwrite", false, "Delete existing datasets with the same name and create a new one"),
		Truncate:  flag.Bool("truncate", false, "Clear table rows when reusing an existing dataset"),
		Buffer:    flag.Int("buffer", 0, "Override row buffer size"),

		CreateConfig: flag.String("create-config", "", "Write a starter config for a source type (sqlite, postgres, mysql, mssql, xlsx, csv)"),

		Version: flag.Bool("version", false, "Print version information"),
		Help:    flag.Bool("help", false, "Print help"),
	}
	flag.Parse()
	return flags
}

// Apply overlays non-empty flag values onto the loaded config
func (f *Flags) Apply(cfg *Config) {
	if *f.Dataset != "" {
		cfg.PowerBI.Dataset = *f.Dataset
	}
	if *f.Workspace != "" {
		cfg.PowerBI.Workspace = *f.Workspace
	}
	if *f.Table != "" {
		cfg.Source.Table = *f.Table
	}
	if *f.Overwrite {
		cfg.PowerBI.Overwrite = true
	}
	if *f.Truncate {
		cfg.PowerBI.Truncate = true
	}
	if *f.Buffer > 0 {
		cfg.PowerBI.BufferSize = *f.Buffer
	}
}
