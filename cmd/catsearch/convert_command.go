package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"catsearch/internal/catalog"
	"catsearch/internal/config"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input>... <output>",
		Short: "Re-encode catalog files into another compression",
		Long: `Read one or more catalog files, in any supported container, and write
their merged contents to the output file. The output compression follows the
suffix: .json, .json.gz, .json.bz2, or .json.xz.`,
		Args:        cobra.MinimumNArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, output := args[:len(args)-1], args[len(args)-1]
			target, err := config.ExpandPath(output)
			if err != nil {
				return err
			}

			merged := catalog.Document{}
			for _, input := range inputs {
				path, err := config.ExpandPath(input)
				if err != nil {
					return err
				}
				doc, err := catalog.DecodeFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", input, err)
				}
				merged.Entries = append(merged.Entries, doc.Entries...)
				if merged.BuildTime.IsZero() || doc.BuildTime.After(merged.BuildTime) {
					merged.BuildTime = doc.BuildTime
				}
			}
			merged.MinFrequency, merged.MaxFrequency = documentRange(merged.Entries)

			kind, ok := catalog.CompressionForName(target)
			if !ok {
				return fmt.Errorf("output %q has no recognized suffix (.json, .json.gz, .json.bz2, .json.xz)", output)
			}
			saved, err := catalog.Save(target, merged, kind)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d substances to %s\n", len(merged.Entries), saved)
			return nil
		},
	}
	return cmd
}

func documentRange(entries []catalog.Entry) (min, max float64) {
	store := catalog.NewStore()
	store.AppendEntries(entries)
	return store.FrequencyLimits()
}
