package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/trailimage/storyfmt/internal/cache"
	"github.com/trailimage/storyfmt/internal/config"
	"github.com/trailimage/storyfmt/internal/pipeline"
	"github.com/trailimage/storyfmt/internal/source"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "storyfmt",
		Short: "Format plain-text stories and captions as HTML",
		Long: `storyfmt turns the plain text of a photo story or caption into HTML.

It recognizes haiku, poems, block quotes, short quips, footnotes and
long links, and renders each the way the photo blog displays them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("icons", "", "YAML file mapping icon roles to glyph names")
	flags.Bool("typography", false, "curl straight quotes and replace -- and ...")
	flags.String("cache", "", "bbolt file caching rendered HTML")
	flags.Bool("verbose", false, "log debug output")

	rootCmd.AddCommand(textCmd(cache.ModeStory, "story", "Render a story"))
	rootCmd.AddCommand(textCmd(cache.ModeCaption, "caption", "Render a photo caption"))
	rootCmd.AddCommand(renderCmd())

	return rootCmd
}

func textCmd(mode cache.Mode, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + ` from --text or standard input.

Example:
  storyfmt ` + use + ` --text "Rafting the canyon."
  storyfmt ` + use + ` < draft.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _ := cmd.Flags().GetString("text")
			if !cmd.Flags().Changed("text") {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimRight(string(data), "\r\n")
			}

			r, closeFn, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			html, _ := r.Render(mode, text)
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}
	cmd.Flags().String("text", "", "text to render instead of standard input")
	return cmd
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render FILE...",
		Short: "Render every entry in one or more files",
		Long: `Render every entry found in the given files.

Supported formats: TXT, MD, CSV, HTML, PDF, DOCX. Headings in Markdown,
HTML and Word files start new entries; each CSV row is an entry.

Example:
  storyfmt render trip.md
  storyfmt render --mode caption --json captions.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modeName, _ := cmd.Flags().GetString("mode")
			asJSON, _ := cmd.Flags().GetBool("json")

			mode, err := pipeline.ParseMode(modeName)
			if err != nil {
				return err
			}

			r, closeFn, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			var all []fileResult
			for _, path := range args {
				fr, err := renderFile(r, mode, path)
				if err != nil {
					return err
				}
				if asJSON {
					all = append(all, fr)
					continue
				}
				for _, e := range fr.Entries {
					label := fr.Title
					if e.Title != "" {
						label += ": " + e.Title
					}
					fmt.Fprintf(out, "<!-- %s -->\n%s\n", label, e.HTML)
				}
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(all)
			}
			return nil
		},
	}
	cmd.Flags().String("mode", "story", "render entries as story or caption")
	cmd.Flags().Bool("json", false, "write results as JSON")
	return cmd
}

type fileResult struct {
	File    string            `json:"file"`
	Title   string            `json:"title"`
	Entries []pipeline.Result `json:"entries"`
}

func renderFile(r *pipeline.Renderer, mode cache.Mode, path string) (fileResult, error) {
	p, err := source.ForFile(path)
	if err != nil {
		return fileResult{}, fmt.Errorf("%s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileResult{}, err
	}
	doc, err := p.Parse(bytes.NewReader(data), path)
	if err != nil {
		return fileResult{}, fmt.Errorf("%s: %w", path, err)
	}

	fr := fileResult{File: path, Title: doc.Title}
	for _, e := range doc.Entries {
		html, _ := r.Render(mode, e.Text)
		fr.Entries = append(fr.Entries, pipeline.Result{Title: e.Title, Page: e.Page, HTML: html})
	}
	return fr, nil
}

// newRenderer builds a renderer from the persistent flags. The returned
// function closes the cache, if one was opened.
func newRenderer(cmd *cobra.Command) (*pipeline.Renderer, func(), error) {
	icons, _ := cmd.Flags().GetString("icons")
	typography, _ := cmd.Flags().GetBool("typography")
	cachePath, _ := cmd.Flags().GetString("cache")
	verbose, _ := cmd.Flags().GetBool("verbose")

	log := newLogger(cmd.ErrOrStderr(), verbose)

	cfg := config.Config{IconsFile: icons, Typography: typography, CachePath: cachePath}
	f, err := cfg.Formatter()
	if err != nil {
		return nil, nil, err
	}

	if cfg.CachePath == "" {
		return pipeline.NewRenderer(f, nil, nil, log), func() {}, nil
	}
	c, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("render cache opened", "path", cfg.CachePath)
	closeFn := func() {
		if err := c.Close(); err != nil {
			log.Error("cache close failed", "error", err)
		}
	}
	return pipeline.NewRenderer(f, c, nil, log), closeFn, nil
}

// newLogger writes human-readable logs to a terminal and JSON otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
