package commands

import (
	"fmt"
	"io"
	"recipecart/internal/components/telemetry"
	"recipecart/internal/config"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listsCmd)
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Lists the shopping lists of the account.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		ctx := cmd.Context()

		creds, err := config.LoadCredentials(envFile)
		if err != nil {
			return fmt.Errorf("load credentials: %w", err)
		}
		settings, err := config.LoadSettings(configFile)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		vendor, err := loadVendor(settings, telemetry.SlogAPI{})
		if err != nil {
			return fmt.Errorf("initialize vendor client: %w", err)
		}

		err = vendor.Authenticate(ctx, creds.Username, creds.Password)
		if err != nil {
			return err
		}
		lists, err := vendor.ListShoppingLists(ctx)
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Title", "Offline id", ""})
		for _, l := range lists {
			marker := ""
			if l.Title == creds.ListName {
				marker = "target"
			}
			t.AppendRow(table.Row{l.Title, l.OfflineId, marker})
		}
		t.Render()
		return nil
	},
}
