package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/probekit/go-landmark-instrumentation/internal/treeio"
	"github.com/probekit/go-landmark-instrumentation/rewriter"
	"github.com/spf13/cobra"
)

var (
	stripUnitPath string
	stripDiffFile string
)

var stripCmd = &cobra.Command{
	Use:   "strip",
	Short: "remove landmark annotations",
	Long:  "remove every landmark pragma and annotation from compilation unit trees without inserting any probes, so builds carry no probe runtime dependency",
	Args:  cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		Strip()
	},
}

func Strip() {
	if stripUnitPath == "" {
		log.Fatal("--path is required")
	}

	if _, err := os.Stat(stripUnitPath); err != nil {
		cobra.CheckErr(fmt.Errorf("--path \"%s\" is invalid: %v", stripUnitPath, err))
	}

	outputFile, err := setOutputFilePath(stripDiffFile, stripUnitPath)
	if err != nil {
		cobra.CheckErr(err)
	}

	files, err := collectUnitFiles(stripUnitPath)
	if err != nil {
		log.Fatal(err)
	}

	for _, file := range files {
		if err := stripUnitFile(file, outputFile); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("changes written to %s", outputFile)
}

// stripUnitFile runs the stripping pass over one unit file and appends the
// resulting unified diff to the diff file.
func stripUnitFile(path, diffFile string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	unit, err := treeio.DecodeUnit(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	encoded, err := treeio.EncodeUnit(rewriter.StripUnit(unit))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return rewriter.WriteDiff(diffFile, filepath.Base(path), raw, encoded)
}

func init() {
	stripCmd.Flags().StringVar(&stripUnitPath, "path", defaultUnitPath, "unit file or directory of unit files")
	stripCmd.Flags().StringVar(&stripDiffFile, "diff", defaultOutputFilePath, "specify diff output file path")
	cobra.MarkFlagFilename(stripCmd.Flags(), "diff", ".diff") // for file completion

	rootCmd.AddCommand(stripCmd)
}
