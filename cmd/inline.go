// Package cmd implements the command-line interface for recap.
package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/recap-cli/recap/filesystem"
	"github.com/recap-cli/recap/inline"
	"github.com/recap-cli/recap/query"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("query", "q", "", "Text query to filter transcript segments by")
	inlineCmd.Flags().StringP("speaker", "s", "", "Restrict output to segments spoken by the given speaker")
	inlineCmd.Flags().StringP("segments", "e", "", "Criteria for selecting specific segments from the filtered results")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().Bool("speakers", false, "List the distinct speakers of the transcript instead of segments")
	inlineCmd.Flags().BoolP("include-words", "w", false, "Include word-level timing data in the structured output")

	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	_ = inlineCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// inlineCmd executes the application in non-interactive, scriptable inline mode.
var inlineCmd = &cobra.Command{
	Use:   "inline [meeting]",
	Short: "Execute the application in non-interactive, scriptable inline mode",
	Long: `Initialize the application for automated transcript extraction using inline mode.

Segment selectors:
  first - first segment in the filtered list
  last - last segment in the filtered list
  all - all segments in the filtered list
  [number] - select segment by index (starting from 0)
  [from]-[to] - select segments by range
  @[substring]@ - select segments by text substring`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			writer io.Writer
			err    error
		)

		output := lo.Must(cmd.Flags().GetString("output"))
		if output != "" {
			writer, err = filesystem.API().Create(output)
			handleErr(err)
		} else {
			writer = os.Stdout
		}

		segmentsFlag := lo.Must(cmd.Flags().GetString("segments"))
		segmentsFilter := mo.None[inline.SegmentsFilter]()
		if segmentsFlag != "" {
			fn, err := inline.ParseSegmentsFilter(segmentsFlag)
			handleErr(err)
			segmentsFilter = mo.Some(fn)
		}

		options := &inline.Options{
			Out:            writer,
			Target:         args[0],
			Query:          lo.Must(cmd.Flags().GetString("query")),
			Speaker:        lo.Must(cmd.Flags().GetString("speaker")),
			Json:           lo.Must(cmd.Flags().GetBool("json")),
			Speakers:       lo.Must(cmd.Flags().GetBool("speakers")),
			IncludeWords:   lo.Must(cmd.Flags().GetBool("include-words")),
			SegmentsFilter: segmentsFilter,
		}

		handleErr(inline.Run(options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)

	inlineSchemaCmd.Flags().BoolP("speakers", "s", false, "Generate the JSON Schema for speaker listing outputs")
}

// inlineSchemaCmd generates JSON schemas for structured inline mode outputs.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for structured inline mode outputs",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "meeting", "segment", "word", "output":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("speakers")):
			schema = reflector.Reflect(&inline.SpeakersOutput{})
		default:
			schema = reflector.Reflect(&inline.Output{})
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
