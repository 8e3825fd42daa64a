package commands

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dokzlo13/huectl/internal/app"
	"github.com/dokzlo13/huectl/internal/bridge"
	v2 "github.com/dokzlo13/huectl/internal/hue/v2"
)

func newDiscoverCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Find bridges on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := bridge.Discover(cmd.Context())
			if err != nil {
				return err
			}
			if len(found) == 0 {
				pterm.Info.Println("No bridges found")
				return nil
			}

			table := pterm.TableData{{"ID", "Address"}}
			for _, b := range found {
				table = append(table, []string{b.ID, b.Address})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
		},
	}
}

func newPairCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "pair [address]",
		Short: "Create an application key on a bridge",
		Long: "Press the link button on the bridge, then run pair within 30 seconds.\n" +
			"Without an address the configured bridge is used, or the first discovered one.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := pairAddress(cmd, g, args)
			if err != nil {
				return err
			}

			return g.withApp(func(a *app.App) error {
				b, err := a.Pair(cmd.Context(), address)
				if errors.Is(err, v2.ErrLinkButtonNotPressed) {
					pterm.Warning.Println("Press the link button on the bridge and run pair again")
					return err
				}
				if err != nil {
					return err
				}
				pterm.Success.Printfln("Paired with %s", b.Address)
				return nil
			})
		},
	}
}

func pairAddress(cmd *cobra.Command, g *globals, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if g.cfg.Hue.Bridge != "" {
		return g.cfg.Hue.Bridge, nil
	}

	found, err := bridge.Discover(cmd.Context())
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", errors.New("no bridges found, pass the bridge address")
	}
	return found[0].Address, nil
}

func newBridgesCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridges",
		Short: "List paired bridges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(func(a *app.App) error {
				paired, err := a.Bridges.List()
				if err != nil {
					return err
				}
				if len(paired) == 0 {
					pterm.Info.Println("No paired bridges")
					return nil
				}

				table := pterm.TableData{{"Address", "Paired at"}}
				for _, b := range paired {
					table = append(table, []string{b.Address, b.PairedAt.Format("2006-01-02 15:04")})
				}
				return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "forget <address>",
		Short: "Remove stored credentials for a bridge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(func(a *app.App) error {
				if err := a.Bridges.Delete(args[0]); err != nil {
					return fmt.Errorf("failed to forget %s: %w", args[0], err)
				}
				pterm.Success.Printfln("Forgot %s", args[0])
				return nil
			})
		},
	})

	return cmd
}
