package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonardomso/postlink/internal/fixer"
	"github.com/leonardomso/postlink/internal/helpers"
	"github.com/leonardomso/postlink/internal/rewriter"
	"github.com/leonardomso/postlink/internal/scanner"
)

// Rewrite command flag variables.
var (
	rewriteWrite          bool
	rewriteYes            bool
	rewriteDryRun         bool
	rewriteFile           string
	rewriteTypes          []string
	rewriteIgnorePatterns []string
	rewriteIgnoreRegex    []string
)

// rewriteCmd represents the rewrite command.
var rewriteCmd = &cobra.Command{
	Use:   "rewrite [path]",
	Short: "Rewrite relative post links to their published URLs",
	Long: `Rewrite every [text](href) link whose href points at another post.

Without --write, the rewritten content of a single file is printed to stdout.
Use "-" to read from stdin; --file then names the file the text came from.

With --write, every post under path (default: the blog root) is rewritten in
place. By default the command asks before each file:
Use --yes to rewrite all files without prompting (useful for CI/scripts).
Use --dry-run to preview changes without modifying files.
The command exits with status 1 if any file could not be rewritten.

Examples:
  postlink rewrite src/data/blog/a/index.md
  cat post.md | postlink rewrite - --file src/data/blog/a/index.md
  postlink rewrite --write --dry-run
  postlink rewrite --write --yes
  postlink rewrite --write --ignore-pattern="drafts/*"`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRewrite,
}

func init() {
	rootCmd.AddCommand(rewriteCmd)

	rewriteCmd.Flags().BoolVarP(&rewriteWrite, "write", "w", false,
		"Rewrite files in place")
	rewriteCmd.Flags().BoolVarP(&rewriteYes, "yes", "y", false,
		"Rewrite all files without prompting")
	rewriteCmd.Flags().BoolVarP(&rewriteDryRun, "dry-run", "n", false,
		"Preview changes without modifying files")
	rewriteCmd.Flags().StringVarP(&rewriteFile, "file", "F", "",
		"File the stdin content belongs to (for relative links)")
	rewriteCmd.Flags().StringSliceVarP(&rewriteTypes, "types", "T", nil,
		"File types to scan with --write (comma-separated): md, mdx, markdown")
	rewriteCmd.Flags().StringSliceVar(&rewriteIgnorePatterns, "ignore-pattern", nil,
		"Glob patterns for hrefs to leave untouched (can be repeated)")
	rewriteCmd.Flags().StringSliceVar(&rewriteIgnoreRegex, "ignore-regex", nil,
		"Regex patterns for hrefs to leave untouched (can be repeated)")
}

func runRewrite(cmd *cobra.Command, args []string) {
	r := appConfig.BuildResolver()
	urlFilter, err := appConfig.BuildFilter(rewriteIgnorePatterns, rewriteIgnoreRegex)
	exitOnError(err, "Error creating filter")
	rw := rewriter.New(r, urlFilter)

	if !rewriteWrite {
		if len(args) == 0 {
			exitOnError(fmt.Errorf("a file or - is required without --write"), "")
		}
		exitOnError(rewriteToStdout(cmd.InOrStdin(), cmd.OutOrStdout(), rw, args[0]), "")
		return
	}

	path := getPathArg(args, r.BlogDir())
	files, err := scanner.FindFilesWithOptions(appConfig.BuildScanOptions(path, rewriteTypes))
	exitOnError(err, "Error scanning directory")
	fmt.Printf("Found %s\n", helpers.Plural(len(files), "file", "files"))

	f := fixer.New(rw)
	changes, err := f.FindChanges(files)
	exitOnError(err, "Error reading files")

	fmt.Println()
	fmt.Print(f.Preview(changes))
	if len(changes) == 0 {
		fmt.Println()
		return
	}

	switch {
	case rewriteDryRun:
		fmt.Println("Dry-run mode: no files were modified.")
	case rewriteYes:
		results := f.ApplyAll(changes)
		fmt.Println(fixer.DetailedSummary(results))
		if fixer.HasErrors(results) {
			os.Exit(1)
		}
	default:
		results, quit := promptAndApply(os.Stdin, os.Stdout, f, changes)
		fmt.Println()
		fmt.Println(fixer.Summary(results))
		if fixer.HasErrors(results) {
			os.Exit(1)
		}
		if quit {
			os.Exit(2)
		}
	}
}

// rewriteToStdout rewrites one file, or stdin for "-", and writes the result
// to out.
func rewriteToStdout(in io.Reader, out io.Writer, rw *rewriter.Rewriter, path string) error {
	var content []byte
	var err error
	fileContext := ""

	if path == "-" {
		content, err = io.ReadAll(in)
		if rewriteFile != "" {
			fileContext = absPath(rewriteFile)
		}
	} else {
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			return fmt.Errorf("%s is a directory; use --write to rewrite every post in it", path)
		}
		content, err = os.ReadFile(path)
		fileContext = absPath(path)
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(out, rw.Rewrite(string(content), fileContext))
	return err
}

// promptAndApply asks before rewriting each file. It returns the results and
// whether the user quit before the end.
func promptAndApply(in io.Reader, out io.Writer, f *fixer.Fixer, changes []fixer.FileChanges) ([]fixer.FixResult, bool) {
	reader := bufio.NewReader(in)
	var results []fixer.FixResult
	applyAll := false

	apply := func(fc fixer.FileChanges) {
		result, err := f.ApplyToFile(fc)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		} else {
			fmt.Fprintf(out, "Rewrote %s in %s\n", helpers.Plural(result.Applied, "link", "links"), fc.FilePath)
		}
		results = append(results, *result)
	}

	for i := 0; i < len(changes); i++ {
		fc := changes[i]

		if applyAll {
			apply(fc)
			continue
		}

		fmt.Fprintf(out, "\nRewrite %s? (%s) [y/n/a/q/?] ",
			fc.FilePath, helpers.Plural(len(fc.Fixes), "link", "links"))

		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			fmt.Fprintln(out, "\nNo more input. Remaining files were not modified.")
			return results, true
		}

		switch strings.TrimSpace(strings.ToLower(input)) {
		case "y", "yes":
			apply(fc)

		case "n", "no":
			fmt.Fprintf(out, "Skipped %s\n", fc.FilePath)

		case "a", "all":
			apply(fc)
			applyAll = true

		case "q", "quit":
			fmt.Fprintln(out, "\nQuitting. Remaining files were not modified.")
			return results, true

		case "?", "help":
			printPromptHelp(out)
			i-- // Re-prompt for this file

		default:
			fmt.Fprintln(out, "Invalid input. Use y/n/a/q/? (or type 'help')")
			i-- // Retry this file
		}
	}

	return results, false
}

// printPromptHelp displays help for the prompt options.
func printPromptHelp(w io.Writer) {
	fmt.Fprintln(w, `
Options:
  y, yes  - Rewrite this file
  n, no   - Skip this file
  a, all  - Rewrite this file and all remaining files
  q, quit - Quit without rewriting remaining files
  ?, help - Show this help`)
}
