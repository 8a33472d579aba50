package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/medsift/medsift/internal/cli"
	"github.com/medsift/medsift/internal/model"
	"github.com/medsift/medsift/internal/pipeline"
)

func extractCmd() *cobra.Command {
	var (
		text   string
		file   string
		dir    string
		direct bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract amounts from bill text",
		Long: `Extract runs bill text through the detection pipeline and prints the
classified amounts. Text comes from --text, --file, --dir or stdin.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var p *pipeline.Pipeline
			if direct {
				p, err = pipeline.NewDirect(cfg)
			} else {
				p, err = pipeline.New(cfg)
			}
			if err != nil {
				return err
			}

			if dir != "" {
				return extractDir(cmd, p, dir, output)
			}

			input, err := readInput(text, file)
			if err != nil {
				return err
			}
			if err := p.ValidateInput(input); err != nil {
				return err
			}

			result := p.Process(cmd.Context(), pipeline.Request{Text: input})
			return writeResult(cmd.OutOrStdout(), result, output)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "bill text to process")
	cmd.Flags().StringVar(&file, "file", "", "file containing bill text")
	cmd.Flags().StringVar(&dir, "dir", "", "process every .txt file in a directory")
	cmd.Flags().BoolVar(&direct, "direct", false, "use the direct per-line pattern table")
	cmd.Flags().StringVar(&output, "output", "pretty", "output format (pretty, json)")

	return cmd
}

func readInput(text, file string) (string, error) {
	switch {
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
}

// extractDir processes every .txt file in a directory, with a progress bar,
// and prints one result per file.
func extractDir(cmd *cobra.Command, p *pipeline.Pipeline, dir, output string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".txt") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return fmt.Errorf("no .txt files in %s", dir)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Extracting amounts..."),
	)

	out := cmd.OutOrStdout()
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		result := p.Process(cmd.Context(), pipeline.Request{Text: string(data)})
		fmt.Fprintf(out, "%s:\n", path)
		if err := writeResult(out, result, output); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(cmd.ErrOrStderr())

	return nil
}

func writeResult(w io.Writer, result model.PipelineResult, output string) error {
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err := fmt.Fprint(w, cli.RenderResult(result))
	return err
}
