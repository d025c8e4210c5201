package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/terravue/surveytiler/internal/config"
	"github.com/terravue/surveytiler/internal/store"
	"github.com/terravue/surveytiler/internal/tiler"
	"github.com/terravue/surveytiler/pkg"
	"github.com/terravue/surveytiler/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/terravue/surveytiler/tools"
)

const VERSION = "0.3.1"

const logo = `
                                     _   _ _
 ___ _   _ _ ____   _____ _   _    | |_(_) | ___ _ __
/ __| | | | '__\ \ / / _ \ | | |   | __| | |/ _ \ '__|
\__ \ |_| | |   \ V /  __/ |_| |   | |_| | |  __/ |
|___/\__,_|_|    \_/ \___|\__, |    \__|_|_|\___|_|
                          |___/  binary surveys in, height tiles out
`

func main() {
	log.SetPrefix("[surveytiler] ")
	log.SetFlags(log.LUTC | log.Ldate | log.Lmicroseconds | log.Lshortfile)

	flagsGlobal := tools.ParseFlagsGlobal()
	log.Println(tools.FmtJSONString(flagsGlobal))

	args := flag.Args()
	if len(args) == 0 {
		log.Fatal("Please specify a subcommand [tile|sample|verify].")
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case "tile":
		mainCommandTile(args)
	case "sample":
		mainCommandSample(args)
	case "verify":
		mainCommandVerify(args)
	default:
		log.Fatalf("Unrecognized command [%q]. Command must be one of [tile|sample|verify]", cmd)
	}
}

func mainCommandTile(args []string) {
	flags := tools.ParseFlagsForCommandTile(args)

	if *flags.Help {
		showHelp()
		return
	}

	if *flags.Version {
		printVersion()
		return
	}

	if *flags.Silent {
		tools.DisableLogger()
	} else {
		printLogo()
	}
	if !*flags.LogTimestamp {
		tools.DisableLoggerTimestamp()
	}

	opts, err := optionsFromFlags(&flags.TilerFlags, tools.CommandTile)
	if err != nil {
		log.Fatal("Error parsing input parameters: ", err)
	}

	if msg, res := validateOptionsForCommandTile(opts); !res {
		log.Fatal("Error parsing input parameters: " + msg)
	}

	err = pkg.NewTiler(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).RunTiler(opts)
	if err != nil {
		log.Fatal("Error while tiling: ", err)
	} else {
		tools.LogOutput("Conversion Completed")
	}
}

func validateOptionsForCommandTile(opts *tiler.TilerOptions) (string, bool) {
	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		return "Input file/folder not found", false
	}

	if opts.TileSize <= 0 {
		return "tile-size must be positive", false
	}

	if opts.Resolution <= 0 {
		return "resolution must be positive", false
	}

	return "", true
}

func mainCommandSample(args []string) {
	flags := tools.ParseFlagsForCommandSample(args)

	opts, err := optionsFromFlags(&flags.TilerFlags, tools.CommandSample)
	if err != nil {
		log.Fatal("Error parsing input parameters: ", err)
	}
	opts.TilerSampleOptions = &tiler.TilerSampleOptions{
		MeshKey:   *flags.MeshKey,
		TileIndex: uint32(*flags.TileIndex),
	}

	if opts.TilerSampleOptions.MeshKey == "" {
		log.Fatal("Error parsing input parameters: key must be specified")
	}

	fileStore, err := store.NewFileStore(opts.StoreDir)
	if err != nil {
		log.Fatal("Error opening store: ", err)
	}

	grid, err := pkg.SampleTile(opts, fileStore, opts.TilerSampleOptions.MeshKey, opts.TilerSampleOptions.TileIndex)
	if err != nil {
		log.Fatal("Error while sampling: ", err)
	}
	if grid == nil {
		tools.LogOutput("No data for requested tile")
		return
	}
	tools.LogOutput(fmt.Sprintf("Sampled %dx%d grid, %d of %d cells covered",
		grid.Rows, grid.Cols, grid.ValidCount(), grid.Rows*grid.Cols))
}

func mainCommandVerify(args []string) {
	flags := tools.ParseFlagsForCommandVerify(args)

	opts, err := optionsFromFlags(&flags.TilerFlags, tools.CommandVerify)
	if err != nil {
		log.Fatal("Error parsing input parameters: ", err)
	}
	opts.TilerVerifyOptions = &tiler.TilerVerifyOptions{
		ExportPly: *flags.ExportPly,
	}

	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		log.Fatal("Error parsing input parameters: Input file/folder not found")
	}

	err = pkg.NewTilerVerify(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).RunTiler(opts)
	if err != nil {
		log.Fatal("Error while verifying: ", err)
	}
}

// optionsFromFlags merges flag values over the YAML configuration defaults.
// When no config flag is given, a surveytiler.yml next to the executable is
// picked up if present.
func optionsFromFlags(flags *tools.TilerFlags, command string) (*tiler.TilerOptions, error) {
	configPath := *flags.Config
	if configPath == "" {
		candidate := filepath.Join(tools.GetRootFolder(), "surveytiler.yml")
		if _, err := os.Stat(candidate); err == nil {
			configPath = candidate
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	opts := &tiler.TilerOptions{
		Input:            *flags.Input,
		Srid:             *flags.Srid,
		ZOffset:          *flags.ZOffset,
		TileSize:         *flags.TileSize,
		Resolution:       *flags.Resolution,
		Workers:          *flags.Workers,
		StoreDir:         *flags.StoreDir,
		FolderProcessing: *flags.FolderProcessing,
		Recursive:        *flags.Recursive,
		MaxInputBytes:    *flags.MaxSize,
		Command:          command,
	}
	cfg.Apply(opts)
	return opts, nil
}

func printLogo() {
	fmt.Println(logo)
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("surveytiler decodes binary survey meshes and converts them into tiled height grids for incremental viewing")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Command line flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
