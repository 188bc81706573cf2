package cli

import (
	"fmt"
	"os"

	"github.com/kawaragi/meguri/internal/rules"
	"github.com/spf13/cobra"
)

var (
	rulesShowFile  string
	rulesCheckFile string
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate the rule library",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rule library as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := rules.Load(rulesShowFile, "")
		if err != nil {
			return err
		}

		data, err := rules.Dump(lib)
		if err != nil {
			return fmt.Errorf("render rules: %w", err)
		}

		fmt.Printf("# %d rules, %d noise entries\n", lib.Len(), len(lib.Noise()))
		_, err = os.Stdout.Write(data)
		return err
	},
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check <rules.yaml>",
	Short: "Validate a rule library override file",
	Long: `Check compiles a rule override file exactly as curation would. A
malformed pattern or incomplete rule is reported here instead of at
the start of a long batch run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := rules.Load(args[0], rulesCheckFile)
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s: %d rules compiled\n", args[0], lib.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesCheckCmd)

	rulesShowCmd.Flags().StringVar(&rulesShowFile, "rules", "", "rule library YAML override")
	rulesCheckCmd.Flags().StringVar(&rulesCheckFile, "noise", "", "noise blocklist YAML to validate alongside")
}
