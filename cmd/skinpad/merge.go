package skinpad

import (
	"errors"
	"fmt"
	"os"

	"github.com/skinpad/skinpad/db"
	"github.com/spf13/cobra"
)

var (
	mergeInputs []string
	mergeOutput string
)

// mergeCmd represents the merge command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge journals into one",
	Long:  `Given several journals, create a new one holding the union of their transitions.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if len(mergeInputs) == 0 {
			return errors.New("no journals to merge")
		}

		if _, err := os.Stat(mergeOutput); err == nil {
			return fmt.Errorf("output file %s already exists", mergeOutput)
		}

		inputs := make([]*db.SQLiteStorage, 0, len(mergeInputs))

		defer func() {
			for _, in := range inputs {
				in.Close()
			}
		}()

		for _, fn := range mergeInputs {
			if _, err := os.Stat(fn); err != nil {
				return fmt.Errorf("could not read journal: %w", err)
			}

			store, err := db.NewStorageFromPath(fn)
			if err != nil {
				return err
			}

			inputs = append(inputs, store)
		}

		output, err := db.NewStorageFromPath(mergeOutput)
		if err != nil {
			return err
		}
		defer output.Close()

		return db.Merge(inputs, output)
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringSliceVarP(&mergeInputs, "file", "f", []string{}, "Journals to merge")
	mergeCmd.Flags().StringVarP(&mergeOutput, "out", "o", "./merged.sqlite", "Output journal")
}
