package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

var validateJSON bool

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [client...]",
	Short: "Validate client config files and server records",
	Long: `Validate the targeted client configuration files.

Two levels are checked: the structural shape of each config file (the
client's native format), and every server record it contains (name charset,
required command or URL for its transport). A missing config file is valid.

Exits non-zero when any problem is found.`,
	Example: `  # Validate every detected client
  mcpsync validate

  # Validate specific clients
  mcpsync validate cursor opencode

  # Machine-readable report
  mcpsync validate --json`,
	RunE: runValidate,
}

// validateResult is one client's validation outcome.
type validateResult struct {
	Client      string   `json:"client"`
	ConfigPath  string   `json:"config_path"`
	FormatValid bool     `json:"format_valid"`
	Problems    []string `json:"problems,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	reg := newRegistry()
	handles, err := resolveClients(reg, args)
	if err != nil {
		return err
	}

	results := make([]validateResult, 0, len(handles))
	failed := false
	for _, h := range handles {
		handler, err := getHandler(reg, h.Kind)
		if err != nil {
			return err
		}

		result := validateResult{
			Client:      h.Kind,
			ConfigPath:  h.ConfigPath,
			FormatValid: handler.ValidateFormat(),
		}
		if !result.FormatValid {
			result.Problems = append(result.Problems, "config file is not structurally valid")
		} else {
			servers, err := handler.Load()
			if err != nil {
				result.Problems = append(result.Problems,
					fmt.Sprintf("loading servers: %v", err))
			} else {
				for _, s := range servers {
					if err := s.Validate(); err != nil {
						result.Problems = append(result.Problems,
							fmt.Sprintf("server %q: %v", s.Name, err))
					}
				}
			}
		}
		if len(result.Problems) > 0 {
			failed = true
		}
		results = append(results, result)
	}

	w := cmd.OutOrStdout()
	if validateJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return errors.Wrap(err, "encoding JSON report")
		}
	} else {
		for _, r := range results {
			if len(r.Problems) == 0 {
				fmt.Fprintf(w, "%s %s\n",
					color.GreenString("✓"), paths.DisplayName(r.Client))
				continue
			}
			fmt.Fprintf(w, "%s %s (%s)\n",
				color.RedString("✗"), paths.DisplayName(r.Client), r.ConfigPath)
			for _, p := range r.Problems {
				fmt.Fprintf(w, "    %s\n", color.YellowString(p))
			}
		}
	}

	if failed {
		return errors.NewExitError(errors.New("validation failed"), errors.ExitUser)
	}
	return nil
}
