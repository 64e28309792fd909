package job

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewMissingCommand creates the missing job command
func NewMissingCommand(factory *ServiceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missing [LANG]",
		Short: "List keys with no translation for a language",
		Long: `List translation keys that have no active translation for the
given language, oldest first. Useful for sizing a sweep before
enqueueing a job.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := args[0]
			limit, _ := cmd.Flags().GetInt("limit")

			ctx := context.Background()
			services, cleanup, err := factory.CreateServices(ctx, NewDeferredQueue())
			if err != nil {
				return err
			}
			defer cleanup()

			keys, err := services.Translations.ListMissing(ctx, lang, limit)
			if err != nil {
				return fmt.Errorf("failed to list missing translations: %w", err)
			}

			if len(keys) == 0 {
				cmd.Printf("No keys missing a %s translation\n", lang)
				return nil
			}

			for _, key := range keys {
				cmd.Printf("%s:%s\t%s\n", key.Component, key.Key, key.SourceText)
			}
			cmd.Printf("%d keys missing a %s translation\n", len(keys), lang)
			return nil
		},
	}

	// Add flags
	cmd.Flags().Int("limit", 100, "Maximum number of keys to list")

	return cmd
}
