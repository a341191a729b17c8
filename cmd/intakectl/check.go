package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"resume-intake/internal/domain"
)

var errRejected = errors.New("one or more files were rejected")

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Check local files against the resume intake rules",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rejected, err := checkFiles(cmd.OutOrStdout(), args)
		if err != nil {
			return err
		}
		if rejected > 0 {
			return errRejected
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// candidateFromPath declares a file the way a browser would: the base name,
// a media type derived from the extension and the size on disk.
func candidateFromPath(path string) (domain.CandidateFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.CandidateFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.CandidateFile{}, fmt.Errorf("%s is a directory", path)
	}
	name := filepath.Base(path)
	return domain.CandidateFile{
		Name:      name,
		MediaType: domain.MediaTypeForFilename(name),
		ByteSize:  info.Size(),
	}, nil
}

func checkFiles(out io.Writer, paths []string) (int, error) {
	rejected := 0
	for _, p := range paths {
		f, err := candidateFromPath(p)
		if err != nil {
			return rejected, err
		}
		if reason, ok := domain.ValidateCandidate(f); !ok {
			rejected++
			fmt.Fprintf(out, "rejected\t%s\t%s\t%s\n", f.Name, reason, reason.Message())
			continue
		}
		fmt.Fprintf(out, "accepted\t%s\t%s\t%d bytes\n", f.Name, f.MediaType, f.ByteSize)
	}
	return rejected, nil
}
