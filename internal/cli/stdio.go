package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recipetable/pkg/errors"
)

// stdioArg marks stdin or stdout in place of a file name.
const stdioArg = "-"

// recipeArgs accepts the optional INPUT and OUTPUT arguments.
var recipeArgs = cobra.MaximumNArgs(2)

// input is a recipe read from a file or stdin.
type input struct {
	// Name labels the recipe in logs and cache entries: the file's base name
	// without extension, or "recipe" for stdin.
	Name   string
	Path   string
	Source string
}

// readInput reads INPUT (args[0]) or stdin when missing or "-".
func readInput(cmd *cobra.Command, args []string) (input, error) {
	path := stdioArg
	if len(args) > 0 {
		path = args[0]
	}

	if path == stdioArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return input{Name: "recipe", Path: stdioArg, Source: string(data)}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "recipe %s", path)
		}
		return input{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return input{Name: name, Path: path, Source: string(data)}, nil
}

// outputPath returns OUTPUT (args[1]) or "-" when missing.
func outputPath(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return stdioArg
}

// writeOutput writes data to path, or to the command's stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == stdioArg {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	printFile(path)
	return nil
}

// writeTo renders through fn into a buffer and writes the result to path.
func writeTo(cmd *cobra.Command, path string, fn func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	return writeOutput(cmd, path, buf.Bytes())
}
