package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/probekit/go-landmark-instrumentation/internal/codegen"
	"github.com/probekit/go-landmark-instrumentation/internal/config"
	"github.com/probekit/go-landmark-instrumentation/internal/report"
	"github.com/probekit/go-landmark-instrumentation/internal/treeio"
	"github.com/probekit/go-landmark-instrumentation/rewriter"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

const (
	defaultUnitPattern    = "*.unit.json"
	defaultUnitPath       = ""
	defaultProfilePath    = ""
	defaultOutputFilePath = ""
	defaultDiffFileName   = "landmark-instrumentation.diff"
)

var (
	debug       bool
	unitPath    string
	mode        string
	threads     bool
	diffFile    string
	profilePath string
)

var instrumentCmd = &cobra.Command{
	Use:   "instrument",
	Short: "insert landmark probes",
	Long:  "insert landmark probes into compilation unit trees and write the changes as a diff",
	Args:  cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		Instrument(cmd)
	},
}

// validateOutputFile checks that the custom output path is valid
func validateOutputFile(path string) error {
	if filepath.Ext(path) != ".diff" {
		return errors.New("output file must have a .diff extension")
	}

	_, err := os.Stat(filepath.Dir(path))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("output file directory does not exist: %v", err)
	}

	return nil
}

// setOutputFilePath returns a complete output file path based on the provided
// diffFile flag value. If the flag is empty, the default path will be based
// on the unit path.
//
// This will fail if the unit path is not valid, and must be run after
// validating it.
func setOutputFilePath(outputFilePath, unitPath string) (string, error) {
	if outputFilePath == "" {
		dir := unitPath
		if info, err := os.Stat(unitPath); err == nil && !info.IsDir() {
			dir = filepath.Dir(unitPath)
		}
		outputFilePath = filepath.Join(dir, defaultDiffFileName)
	}

	err := validateOutputFile(outputFilePath)
	if err != nil {
		return "", err
	}

	return outputFilePath, nil
}

// collectUnitFiles lists the unit files named by path: the file itself, or
// every unit file directly inside it when path is a directory.
func collectUnitFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := filepath.Glob(filepath.Join(path, defaultUnitPattern))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", defaultUnitPattern, path)
	}
	return files, nil
}

// resolveSettings combines flags, environment defaults and the optional
// profile file. Explicit flags win over the profile; the profile wins over
// built-in defaults.
func resolveSettings(cmd *cobra.Command) (codegen.Runtime, bool, error) {
	var profile *config.Profile
	if profilePath != "" {
		p, err := config.Load(profilePath)
		if err != nil {
			return codegen.Runtime{}, false, err
		}
		profile = p
	}

	switch mode {
	case config.ModeAuto, config.ModeOff:
	default:
		return codegen.Runtime{}, false, fmt.Errorf("--mode must be %q or %q, got %q", config.ModeAuto, config.ModeOff, mode)
	}

	auto := mode == config.ModeAuto
	useThreads := threads
	if profile != nil {
		if !cmd.Flags().Changed("mode") && profile.Mode != "" {
			auto = profile.AutoByDefault()
		}
		if !cmd.Flags().Changed("threads") {
			useThreads = profile.Threads
		}
	}

	runtime := codegen.DefaultRuntime()
	if useThreads {
		runtime = codegen.ThreadedRuntime()
	}
	if profile != nil {
		runtime = profile.Runtime.Apply(runtime)
	}

	return runtime, auto, nil
}

func Instrument(cmd *cobra.Command) {
	if unitPath == "" {
		log.Fatal("--path is required")
	}

	if _, err := os.Stat(unitPath); err != nil {
		cobra.CheckErr(fmt.Errorf("--path \"%s\" is invalid: %v", unitPath, err))
	}

	outputFile, err := setOutputFilePath(diffFile, unitPath)
	if err != nil {
		cobra.CheckErr(err)
	}

	if debug {
		report.EnableConsolePrinter()
	}

	runtime, auto, err := resolveSettings(cmd)
	if err != nil {
		cobra.CheckErr(err)
	}

	files, err := collectUnitFiles(unitPath)
	if err != nil {
		log.Fatal(err)
	}

	for _, file := range files {
		if err := instrumentUnitFile(file, outputFile, runtime, auto); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("changes written to %s", outputFile)
	report.WriteAll()
}

// instrumentUnitFile runs the instrumenting rewrite over one unit file and
// appends the resulting unified diff to the diff file. Each unit gets its
// own manager; unit state is never shared.
func instrumentUnitFile(path, diffFile string, runtime codegen.Runtime, auto bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	unit, err := treeio.DecodeUnit(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	manager := rewriter.NewManager(runtime, auto)
	rewritten, err := manager.InstrumentUnit(unit, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	encoded, err := treeio.EncodeUnit(rewritten)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return rewriter.WriteDiff(diffFile, filepath.Base(path), raw, encoded)
}

func init() {
	instrumentCmd.Flags().BoolVar(&debug, "debug", env.Bool("LANDMARKS_DEBUG"), "enable debugging output")
	instrumentCmd.Flags().StringVar(&unitPath, "path", defaultUnitPath, "unit file or directory of unit files")
	instrumentCmd.Flags().StringVar(&mode, "mode", env.Str("LANDMARKS_MODE", config.ModeAuto), "default instrumentation mode: auto or off")
	instrumentCmd.Flags().BoolVar(&threads, "threads", env.Bool("LANDMARKS_THREADS"), "reference the thread-safe probe runtime")
	instrumentCmd.Flags().StringVar(&diffFile, "diff", defaultOutputFilePath, "specify diff output file path")
	instrumentCmd.Flags().StringVar(&profilePath, "config", defaultProfilePath, "instrumentation profile file")
	cobra.MarkFlagFilename(instrumentCmd.Flags(), "diff", ".diff") // for file completion

	rootCmd.AddCommand(instrumentCmd)
}
