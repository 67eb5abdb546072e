package cmd

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	domainshift "shiftclose/internal/domain/shift"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print JSON Schemas of accepted payloads",
}

var schemaFormCmd = &cobra.Command{
	Use:   "form",
	Short: "Print the JSON Schema of the close-out form submission",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeJSON(cmd.OutOrStdout(), formSchema())
	},
}

func formSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			// Wages are typed by hand, either as numbers or as text like "18,50".
			if t == reflect.TypeOf(domainshift.WageValue("")) {
				return &jsonschema.Schema{
					OneOf: []*jsonschema.Schema{
						{Type: "number"},
						{Type: "string"},
					},
				}
			}
			return nil
		},
	}
	schema := reflector.Reflect(&domainshift.FormSubmission{})
	schema.Title = "Shift close-out form"
	return schema
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaFormCmd)
}
