/*
Dup finds duplicate files in a list of given directories and optionally removes them.

Usage:

	dup [flags] dir ...

Files are compared byte for byte. Within the input order the first file seen is the original
and every later identical file is its duplicate. Once all pairs are checked a table of
duplicates is shown and the user is asked whether to remove them.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	dup "github.com/mattkeenan/dup/pkg"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, setupSignalHandler()))
}

// cliOptions holds the parsed command line
type cliOptions struct {
	help       bool
	version    bool
	cross      bool
	recursive  bool
	verbose    int
	debug      string
	configPath string
	sets       []string
	format     string
	chunkSize  string
	ignore     []string
	yes        bool
	noDelete   bool
	dryRun     bool
	noProgress bool
	initConfig bool

	fs *pflag.FlagSet
}

func newFlagSet(stderr io.Writer) (*pflag.FlagSet, *cliOptions) {
	opts := &cliOptions{}
	fs := pflag.NewFlagSet("dup", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	fs.BoolVarP(&opts.cross, "cross", "x", false, "Only compare files from different directories.")
	fs.BoolVarP(&opts.recursive, "recursive", "r", false, "Recursively check files.")
	fs.StringVar(&opts.format, "format", dup.FormatHuman, "Output format: "+strings.Join(dup.ValidFormats, ", ")+".")
	fs.StringVar(&opts.chunkSize, "chunk-size", dup.DefaultChunkSizeHR, "Bytes read per file per step (e.g. 64K, 1M).")
	fs.StringArrayVar(&opts.ignore, "ignore", nil, "Skip paths matching this regular expression (repeatable).")
	fs.BoolVarP(&opts.yes, "yes", "y", false, "Remove duplicates without asking.")
	fs.BoolVarP(&opts.noDelete, "no-delete", "n", false, "Never remove anything, do not ask.")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Show what would be removed without removing it.")
	fs.BoolVar(&opts.noProgress, "no-progress", false, "Do not show the progress line.")
	fs.CountVarP(&opts.verbose, "verbose", "v", "Increase log verbosity (repeatable).")
	fs.StringVar(&opts.debug, "debug", "", "Debug flags: scan, pairs, compare, remove (comma-separated).")
	fs.StringVar(&opts.configPath, "config", "", "Configuration file (default $XDG_CONFIG_HOME/dup/config).")
	fs.StringArrayVar(&opts.sets, "set", nil, "Override a configuration value as key:value (repeatable).")
	fs.BoolVar(&opts.initConfig, "init-config", false, "Write the effective configuration to the config file and exit.")
	fs.BoolVarP(&opts.help, "help", "h", false, "Print this help.")
	fs.BoolVar(&opts.version, "version", false, "Print version information.")

	opts.fs = fs
	return fs, opts
}

func showHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "dup - find and remove duplicate files\n\n")
	fmt.Fprintf(w, "Usage: dup [flags] dir ...\n\n")
	fmt.Fprintf(w, "FLAGS:\n")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintf(w, "\nEXAMPLES:\n")
	fmt.Fprintf(w, "  dup ~/Pictures                    # Duplicates within one directory\n")
	fmt.Fprintf(w, "  dup -r ~/Music /mnt/backup/Music  # Whole trees, originals from ~/Music\n")
	fmt.Fprintf(w, "  dup -x old new                    # Only files in new that already exist in old\n")
	fmt.Fprintf(w, "  dup -r --format fdupes -n .       # Machine readable groups, remove nothing\n")
}

// run executes the command and returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, shutdownChan <-chan struct{}) int {
	dup.SetLogOutput(stderr)

	fs, opts := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "dup: %v\n", err)
		fmt.Fprintf(stderr, "Try 'dup --help' for more information.\n")
		return 1
	}

	if opts.help {
		showHelp(stdout, fs)
		return 0
	}
	if opts.version {
		fmt.Fprintf(stdout, "dup %s\n", getVersionString())
		return 0
	}

	if err := execute(opts, fs.Args(), stdin, stdout, stderr, shutdownChan); err != nil {
		fmt.Fprintf(stderr, "dup: %v\n", err)
		return 1
	}
	return 0
}

// settings is the merge of configuration file and command line, flags winning
type settings struct {
	recursive bool
	format    string
	chunkSize int
	progress  bool
	dryRun    bool
	ignore    *dup.IgnoreManager
}

func resolveSettings(opts *cliOptions, cfg *dup.Config) (*settings, error) {
	all := cfg.GetAllConfig()
	s := &settings{
		recursive: all.Scan.Recursive,
		format:    all.Output.Format,
		progress:  all.Output.Progress && !opts.noProgress,
		dryRun:    all.Remove.DryRun || opts.dryRun,
	}

	level := all.Verbose.Level
	if opts.fs.Changed("verbose") {
		level = opts.verbose
	}
	if err := dup.ValidateVerboseLevel(level); err != nil {
		if level < dup.VerboseQuiet {
			return nil, err
		}
		level = dup.VerboseTrace
	}
	dup.SetVerboseLevel(level)

	debug := all.Verbose.Debug
	if opts.fs.Changed("debug") {
		debug = opts.debug
	}
	dup.SetDebugFlags(debug)

	if opts.fs.Changed("recursive") {
		s.recursive = opts.recursive
	}

	if opts.fs.Changed("format") {
		s.format = dup.NormaliseFormat(opts.format)
	}
	if err := dup.ValidateOutputFormat(s.format); err != nil {
		return nil, err
	}

	var err error
	if opts.fs.Changed("chunk-size") {
		s.chunkSize, err = dup.ParseHumanSize(opts.chunkSize)
		if err != nil {
			return nil, fmt.Errorf("invalid --chunk-size: %w", err)
		}
	} else if s.chunkSize, err = cfg.ChunkSizeBytes(); err != nil {
		return nil, err
	}

	patterns := append(all.Scan.Ignore, opts.ignore...)
	if s.ignore, err = dup.NewIgnoreManager(patterns...); err != nil {
		return nil, err
	}
	if all.Scan.IgnoreFile != "" {
		if err := s.ignore.LoadIgnoreFile(all.Scan.IgnoreFile); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func loadConfig(opts *cliOptions) (*dup.Config, error) {
	path := opts.configPath
	if path == "" {
		path = dup.DefaultConfigPath()
	}

	cfg, err := dup.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(opts.sets); err != nil {
		return nil, err
	}
	return cfg, nil
}

func execute(opts *cliOptions, dirs []string, stdin io.Reader, stdout, stderr io.Writer, shutdownChan <-chan struct{}) error {
	if !opts.initConfig {
		precheck := dup.Options{Dirs: dirs, Cross: opts.cross}
		if err := precheck.Validate(); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if opts.initConfig {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote configuration to %s\n", cfg.Path())
		return nil
	}

	s, err := resolveSettings(opts, cfg)
	if err != nil {
		return err
	}

	fsys := dup.NewOSFilesystem()
	findOpts := dup.Options{
		Dirs:      dirs,
		Cross:     opts.cross,
		Recursive: s.recursive,
		ChunkSize: s.chunkSize,
		Ignore:    s.ignore,
	}
	// detailed logging shares stderr with the bar
	if s.format == dup.FormatHuman && s.progress && dup.GetVerboseLevel() < dup.VerboseDetail && isTerminal(stderr) {
		findOpts.Progress = newBarProgress(stderr)
	}

	finder, err := dup.NewFinder(fsys, findOpts)
	if err != nil {
		return err
	}

	result, err := finder.Run(shutdownChan)
	if err != nil {
		return err
	}
	dm := result.Duplicates

	dup.Logger().WithFields(logrus.Fields{
		"files":       result.FileCount(),
		"pairs":       result.PairCount,
		"comparisons": result.Stats.Comparisons,
		"duplicates":  dm.Len(),
	}).Info("search complete")

	if s.format != dup.FormatHuman {
		if err := dup.WriteReport(stdout, dm, s.format); err != nil {
			return err
		}
		// machine readable output never prompts
		if !opts.yes || opts.noDelete || dm.IsEmpty() {
			return nil
		}
		return removeDuplicates(fsys, dm, s.dryRun, stderr)
	}

	if dm.IsEmpty() {
		fmt.Fprintln(stdout, "No duplicates found")
		return nil
	}

	fmt.Fprintf(stdout, "Found %d duplicate files.\n\n", dm.Len())
	printTable(stdout, dm)
	fmt.Fprintln(stdout)

	if opts.noDelete {
		return nil
	}

	remove := opts.yes
	if !remove {
		remove, err = confirm(stdin, stdout, fmt.Sprintf("Remove %d duplicates?", dm.Len()))
		if err != nil {
			return err
		}
	}
	if !remove {
		fmt.Fprintln(stdout, "Not removing.")
		return nil
	}

	return removeDuplicates(fsys, dm, s.dryRun, stdout)
}

func removeDuplicates(fsys billy.Basic, dm *dup.DuplicateMap, dryRun bool, w io.Writer) error {
	if dryRun {
		fmt.Fprintln(w, "Dry run, nothing is removed:")
	} else {
		fmt.Fprintln(w, "Removing duplicates...")
	}

	removed, err := dup.RemoveDuplicates(fsys, dm, dup.RemoveOptions{DryRun: dryRun})
	if dryRun {
		for _, path := range removed {
			fmt.Fprintf(w, "would remove %s\n", path)
		}
	}
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(w, "%d files would be removed.\n", len(removed))
	} else {
		fmt.Fprintf(w, "Removed %d files.\n", len(removed))
	}
	return nil
}
