package job

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewItemsCommand creates the items job command
func NewItemsCommand(factory *ServiceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items [ID...]",
		Short: "Show translation state for individual item ids",
		Long: `Resolve each item id to its stored translation, if any.
Ids use the "component:key" form; a bare id is matched as a key alone.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, _ := cmd.Flags().GetString("lang")
			if lang == "" {
				return fmt.Errorf("--lang is required")
			}

			ctx := context.Background()
			services, cleanup, err := factory.CreateServices(ctx, NewDeferredQueue())
			if err != nil {
				return err
			}
			defer cleanup()

			items, err := services.Progress.ItemProgress(ctx, lang, args)
			if err != nil {
				return fmt.Errorf("failed to resolve items: %w", err)
			}

			for _, item := range items {
				if !item.Translated {
					cmd.Printf("%s\t(not translated)\n", item.ID)
					continue
				}
				reviewed := ""
				if item.Reviewed {
					reviewed = "\t[reviewed]"
				}
				cmd.Printf("%s\t%s%s\n", item.ID, item.Text, reviewed)
			}
			return nil
		},
	}

	// Add flags
	cmd.Flags().String("lang", "", "Language to resolve translations for")

	return cmd
}
