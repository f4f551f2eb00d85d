package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/jsonschema"
)

func newJSONSchemaCmd() *cobra.Command {
	var unknown string
	cmd := &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the JSON Schema projection of a descriptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, ok := goshape.ParseUnknownPolicy(unknown)
			if !ok {
				return fmt.Errorf("invalid --unknown %q", unknown)
			}
			d, err := loadSchema()
			if err != nil {
				return err
			}
			s, err := jsonschema.From(d, policy)
			if err != nil {
				return fmt.Errorf("project: %w", err)
			}
			b, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	cmd.Flags().StringVar(&unknown, "unknown", "strip", "unknown key policy: strip, strict or passthrough")
	return cmd
}
