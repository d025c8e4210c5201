package tools

import (
	"flag"
	"log"
)

const (
	CommandTile   = "tile"
	CommandSample = "sample"
	CommandVerify = "verify"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

type TilerFlags struct {
	Input            *string `json:"input"`
	Srid             *int    `json:"srid"`
	ZOffset          *float64
	TileSize         *float64 `json:"tile_size"`
	Resolution       *int     `json:"resolution"`
	Workers          *int
	StoreDir         *string `json:"store_dir"`
	FolderProcessing *bool
	Recursive        *bool
	MaxSize          *int64 `json:"max_size"`
	Config           *string
}

type FlagsForCommandTile struct {
	TilerFlags
	Silent       *bool
	LogTimestamp *bool
	Help         *bool
	Version      *bool
}

type FlagsForCommandSample struct {
	TilerFlags
	MeshKey   *string
	TileIndex *uint
}

type FlagsForCommandVerify struct {
	TilerFlags
	ExportPly *string
}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "v", false, "Displays the version of surveytiler.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func ParseFlagsForCommandTile(args []string) FlagsForCommandTile {
	log.Println(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-tile", flag.ExitOnError)

	flags := FlagsForCommandTile{
		TilerFlags:   defineTilerFlags(flagCommand),
		Silent:       defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages."),
		LogTimestamp: defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages."),
		Help:         defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help."),
		Version:      defineBoolFlagCommand(flagCommand, "version", "v", false, "Displays the version of surveytiler."),
	}

	flagCommand.Parse(args)

	return flags
}

func ParseFlagsForCommandSample(args []string) FlagsForCommandSample {
	flagCommand := flag.NewFlagSet("command-sample", flag.ExitOnError)

	flags := FlagsForCommandSample{
		TilerFlags: defineTilerFlags(flagCommand),
		MeshKey:    defineStringFlagCommand(flagCommand, "key", "k", "", "Store key of the mesh to sample."),
		TileIndex:  flagCommand.Uint("tile", 0, "Index of the tile to sample."),
	}

	flagCommand.Parse(args)

	return flags
}

func ParseFlagsForCommandVerify(args []string) FlagsForCommandVerify {
	flagCommand := flag.NewFlagSet("command-verify", flag.ExitOnError)

	flags := FlagsForCommandVerify{
		TilerFlags: defineTilerFlags(flagCommand),
		ExportPly:  defineStringFlagCommand(flagCommand, "export-ply", "p", "", "Exports the decoded mesh to the given PLY file for inspection."),
	}

	flagCommand.Parse(args)

	return flags
}

func defineTilerFlags(flagCommand *flag.FlagSet) TilerFlags {
	return TilerFlags{
		Input:            defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input survey file/folder."),
		Srid:             defineIntFlagCommand(flagCommand, "srid", "e", 0, "EPSG srid code of the input survey coordinates. Zero skips reprojection."),
		ZOffset:          defineFloat64FlagCommand(flagCommand, "zoffset", "z", 0, "Vertical offset to apply to vertices, in meters."),
		TileSize:         defineFloat64FlagCommand(flagCommand, "tile-size", "l", 0, "Side of a square tile cell in mesh units."),
		Resolution:       defineIntFlagCommand(flagCommand, "resolution", "r", 0, "Per-axis sample count of each tile height grid."),
		Workers:          defineIntFlagCommand(flagCommand, "workers", "w", 0, "Number of concurrent tile sampling workers. Zero uses all CPUs."),
		StoreDir:         defineStringFlagCommand(flagCommand, "store", "o", "", "Base directory of the tile store."),
		FolderProcessing: defineBoolFlagCommand(flagCommand, "folder", "f", false, "Enables processing of all survey files from the input folder. Input must be a folder if specified."),
		Recursive:        defineBoolFlagCommand(flagCommand, "recursive", "", false, "Enables recursive lookup for survey files inside subfolders."),
		MaxSize:          flagCommand.Int64("max-size", 0, "Overall input size ceiling in bytes. Zero keeps the configured default."),
		Config:           defineStringFlagCommand(flagCommand, "config", "c", "", "Optional YAML configuration file."),
	}
}

func defineBoolFlag(name string, short string, value bool, usage string) *bool {
	output := flag.Bool(name, value, usage)
	if short != "" {
		flag.BoolVar(output, short, value, usage+" (shorthand)")
	}
	return output
}

func defineStringFlagCommand(flagSet *flag.FlagSet, name string, short string, value string, usage string) *string {
	output := flagSet.String(name, value, usage)
	if short != "" {
		flagSet.StringVar(output, short, value, usage+" (shorthand)")
	}
	return output
}

func defineIntFlagCommand(flagSet *flag.FlagSet, name string, short string, value int, usage string) *int {
	output := flagSet.Int(name, value, usage)
	if short != "" {
		flagSet.IntVar(output, short, value, usage+" (shorthand)")
	}
	return output
}

func defineFloat64FlagCommand(flagSet *flag.FlagSet, name string, short string, value float64, usage string) *float64 {
	output := flagSet.Float64(name, value, usage)
	if short != "" {
		flagSet.Float64Var(output, short, value, usage+" (shorthand)")
	}
	return output
}

func defineBoolFlagCommand(flagSet *flag.FlagSet, name string, short string, value bool, usage string) *bool {
	output := flagSet.Bool(name, value, usage)
	if short != "" {
		flagSet.BoolVar(output, short, value, usage+" (shorthand)")
	}
	return output
}
