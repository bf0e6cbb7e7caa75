package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change ledger settings. Values come from built-in defaults,
the config file and LEDGER_* environment variables, with the environment
taking precedence.`,
	RunE: runSettingsList,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every setting and where its value comes from",
	RunE:  runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting in the config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsReset,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		fmt.Fprintln(cmd.OutOrStdout(), settingsService.Path())
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsListCmd, settingsGetCmd, settingsSetCmd, settingsResetCmd, settingsPathCmd)
	rootCmd.AddCommand(settingsCmd)
}

func listSettings() ([]driving.SettingInfo, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	infos, err := settingsService.List()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return infos, nil
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	infos, err := listSettings()
	if err != nil {
		return err
	}
	if outputFormat == outputJSON {
		return printJSON(cmd, infos)
	}

	p := newPrinter(cmd.OutOrStdout())
	p.Title("Current Settings")
	for _, info := range infos {
		value := info.Value
		if info.Source != "default" {
			value += " " + p.Muted("("+info.Source+", default "+info.Default+")")
		}
		p.Field(info.Key, value)
	}
	p.Blank()
	p.Line(p.Muted("Config file: " + settingsService.Path()))
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	infos, err := listSettings()
	if err != nil {
		return err
	}
	for _, info := range infos {
		if info.Key == args[0] {
			if outputFormat == outputJSON {
				return printJSON(cmd, info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.Value)
			return nil
		}
	}
	return fmt.Errorf("unknown setting %q", args[0])
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %s\n", args[0], args[1])
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Reset(args[0]); err != nil {
		return fmt.Errorf("failed to reset %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s reset to default\n", args[0])
	return nil
}
