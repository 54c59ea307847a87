package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mcgen/internal/driver"
	"mcgen/internal/project"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] file.mc...",
	Short: "Compile message files to Go source",
	Long:  `Generate parses message-definition files and writes Go files with the severity and facility enumerations and the packed code constants`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().String("out", "", "output file (single input only; default <input>_codes.go)")
	generateCmd.Flags().String("package", "", "package name for generated source")
	generateCmd.Flags().BoolP("force", "f", false, "overwrite existing output files")
	generateCmd.Flags().String("config", "", "path to mcgen.toml")
	generateCmd.Flags().Bool("no-cache", false, "bypass the compile cache")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := project.Default()
	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		loaded, err := project.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = cfg.Inputs
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input files (pass them as arguments or list them in %s)", project.DefaultConfigName)
	}

	pkg := cfg.Generate.Package
	if flagPkg, _ := cmd.Flags().GetString("package"); flagPkg != "" {
		pkg = flagPkg
	}
	force, _ := cmd.Flags().GetBool("force")
	force = force || cfg.Generate.Force

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.Generate.Out
	}
	if out != "" && len(inputs) > 1 {
		return fmt.Errorf("--out cannot be combined with multiple inputs")
	}

	opts := driver.Options{Package: pkg}
	noCache, _ := cmd.Flags().GetBool("no-cache")
	if !noCache && !cfg.Generate.NoCache {
		cache, err := driver.OpenDiskCache("mcgen")
		if err == nil {
			opts.Cache = cache
		}
		// A missing cache dir only costs recompiles; not worth failing over.
	}

	results, err := driver.CompileAll(cmd.Context(), inputs, opts)
	if err != nil {
		return err
	}

	okColor := color.New(color.FgGreen)
	for _, res := range results {
		dest := out
		if dest == "" {
			dest = defaultOutputName(res.Path)
		}
		if err := driver.WriteOutput(dest, res.Source, force); err != nil {
			return err
		}
		if quiet(cmd) {
			continue
		}
		note := ""
		if res.Cached {
			note = " (cached)"
		}
		if useColor(cmd, os.Stdout) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s, %d codes%s\n", okColor.Sprint("wrote"), res.Path, dest, res.Codes, note)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s -> %s, %d codes%s\n", res.Path, dest, res.Codes, note)
		}
	}
	return nil
}

// defaultOutputName places the generated file next to the input:
// messages.mc becomes messages_codes.go.
func defaultOutputName(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_codes.go"
}
