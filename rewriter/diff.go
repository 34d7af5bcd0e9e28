package rewriter

import (
	"os"

	godiffpatch "github.com/sourcegraph/go-diff-patch"
)

// WriteDiff appends a unified diff of one unit file's rewrite to the diff
// file, creating the file when missing. unitFileName is the name the unit
// gets inside the patch.
func WriteDiff(diffFile, unitFileName string, original, rewritten []byte) error {
	patch := godiffpatch.GeneratePatch(unitFileName, string(original), string(rewritten))

	f, err := os.OpenFile(diffFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(patch); err != nil {
		return err
	}
	return nil
}
