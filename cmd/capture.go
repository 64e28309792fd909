package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	jobcmd "github.com/coursetrans/coursetrans/cmd/job"
	"github.com/coursetrans/coursetrans/internal/repository"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture [COMPONENT] [KEY] [SOURCE_TEXT]",
	Short: "Capture a source string as a translation key",
	Long: `Create or refresh a translation key. A re-capture with the same
component and key overwrites the source text without changing the key's
identity. Optionally scope the key to a course and seed a translation.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		component, key, sourceText := args[0], args[1], args[2]

		// Get flags
		courseID, _ := cmd.Flags().GetInt64("course")
		lang, _ := cmd.Flags().GetString("lang")
		text, _ := cmd.Flags().GetString("translation")
		reviewed, _ := cmd.Flags().GetBool("reviewed")
		keyContext, _ := cmd.Flags().GetString("context")

		if text != "" && lang == "" {
			return fmt.Errorf("--translation requires --lang")
		}

		ctx := context.Background()
		services, cleanup, err := jobcmd.NewServiceFactory().CreateServices(ctx, jobcmd.NewDeferredQueue())
		if err != nil {
			return err
		}
		defer cleanup()

		keyID, err := services.Keys.SaveKeyWithTranslation(ctx, repository.SaveKeyParams{
			Component:   component,
			Key:         key,
			SourceText:  sourceText,
			Lang:        lang,
			Translation: text,
			Reviewed:    reviewed,
			CourseID:    courseID,
			Context:     keyContext,
		})
		if err != nil {
			return fmt.Errorf("failed to capture key: %w", err)
		}

		cmd.Printf("Captured %s:%s (key ID: %d)\n", component, key, keyID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().Int64("course", 0, "Associate the key with a course")
	captureCmd.Flags().String("lang", "", "Language for a seeded translation")
	captureCmd.Flags().String("translation", "", "Seed translation text (requires --lang)")
	captureCmd.Flags().Bool("reviewed", false, "Mark the seeded translation as reviewed")
	captureCmd.Flags().String("context", "", "Free-form context hint stored with the key")
}
