package command

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/fintrack/internal/settings"
)

func newSettingsCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or apply company and invoice settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current settings as TOML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := r.app.Settings.Get(cmd.Context())
				if err != nil {
					return err
				}

				return toml.NewEncoder(cmd.OutOrStdout()).Encode(s)
			},
		},
		&cobra.Command{
			Use:   "apply <file.toml>",
			Short: "Replace the settings with the contents of a TOML file",
			Long: `Replaces the whole settings record. Keys missing from the file are
cleared, so start from the output of "fintrack settings show".`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var in settings.Settings

				md, err := toml.DecodeFile(args[0], &in)
				if err != nil {
					return fmt.Errorf("reading %s: %w", args[0], err)
				}

				if undecoded := md.Undecoded(); len(undecoded) > 0 {
					return fmt.Errorf("reading %s: unknown keys %v", args[0], undecoded)
				}

				saved, err := r.app.Settings.Save(cmd.Context(), in)
				if err != nil {
					return err
				}

				return toml.NewEncoder(cmd.OutOrStdout()).Encode(saved)
			},
		},
	)

	return cmd
}
