package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dokzlo13/huectl/internal/app"
	v2 "github.com/dokzlo13/huectl/internal/hue/v2"
	"github.com/dokzlo13/huectl/internal/lights"
)

func newLightsCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "lights",
		Short: "List lights on the bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withHue(cmd, func(_ *app.App, hue *app.HueService) error {
				all := hue.Network.All()
				if len(all) == 0 {
					pterm.Info.Println("No lights found")
					return nil
				}

				table := pterm.TableData{{"Name", "ID", "On", "Brightness", "Color", "Gamut"}}
				for _, l := range all {
					table = append(table, lightRow(l))
				}
				return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
			})
		},
	}
}

func newShowCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <light>",
		Short: "Show the current state of one light",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withHue(cmd, func(_ *app.App, hue *app.HueService) error {
				l, err := hue.Network.Find(args[0])
				if err != nil {
					return err
				}
				if err := hue.Network.Refresh(cmd.Context(), hue.Client, l); err != nil {
					return err
				}
				return pterm.DefaultTable.WithData(lightDetails(l)).Render()
			})
		},
	}
}

func lightDetails(l *lights.Light) pterm.TableData {
	row := lightRow(l)
	table := pterm.TableData{
		{pterm.Bold.Sprint("Name"), pterm.Bold.Sprint(l.Name)},
		{"ID", l.ID},
		{"Model", l.ModelID},
		{"Archetype", l.Archetype},
		{"On", row[2]},
		{"Brightness", row[3]},
		{"Color", row[4]},
		{"Gamut", row[5]},
	}
	if l.Color != nil {
		table = append(table, []string{"xy", formatXY(l.Color.XY)})
	}
	if l.Mirek != nil {
		table = append(table, []string{"Mirek", strconv.Itoa(*l.Mirek)})
	}
	return table
}

func lightRow(l *lights.Light) []string {
	hex, gamut := "-", "-"
	if l.SupportsColor() {
		hex = "#" + l.DisplayHex()
		gamut = l.Color.GamutType
		if gamut == "" {
			gamut = "custom"
		}
	}
	return []string{
		l.Name,
		l.ID,
		strconv.FormatBool(l.On),
		fmt.Sprintf("%.0f%%", l.Brightness),
		hex,
		gamut,
	}
}

// targets resolves the light arguments, or every light with all set.
func targets(hue *app.HueService, args []string, all bool) ([]*lights.Light, error) {
	if all {
		return hue.Network.All(), nil
	}
	if len(args) == 0 {
		return nil, errors.New("name a light or pass --all")
	}

	result := make([]*lights.Light, 0, len(args))
	for _, arg := range args {
		l, err := hue.Network.Find(arg)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, nil
}

func newOnCommand(g *globals) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "on [light...]",
		Short: "Turn lights on",
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withHue(cmd, func(_ *app.App, hue *app.HueService) error {
				ls, err := targets(hue, args, all)
				if err != nil {
					return err
				}
				return hue.Controller.TurnOnAll(cmd.Context(), ls)
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Apply to every light")
	return cmd
}

func newOffCommand(g *globals) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "off [light...]",
		Short: "Turn lights off",
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withHue(cmd, func(_ *app.App, hue *app.HueService) error {
				ls, err := targets(hue, args, all)
				if err != nil {
					return err
				}
				return hue.Controller.TurnOffAll(cmd.Context(), ls)
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Apply to every light")
	return cmd
}

func newBrightnessCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "brightness <light> <percent>",
		Short: "Set brightness in percent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid brightness %q", args[1])
			}

			return g.withHue(cmd, func(_ *app.App, hue *app.HueService) error {
				l, err := hue.Network.Find(args[0])
				if err != nil {
					return err
				}
				return hue.Controller.SetBrightness(cmd.Context(), l, pct)
			})
		},
	}
}

func newColorCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "color <light> <#rrggbb|r,g,b>",
		Short: "Set a light's color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rgb, err := parseColor(args[1])
			if err != nil {
				return err
			}

			return g.withHue(cmd, func(_ *app.App, hue *app.HueService) error {
				l, err := hue.Network.Find(args[0])
				if err != nil {
					return err
				}
				p, err := hue.Controller.SetRGB(cmd.Context(), l, rgb)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", l.Name, formatXY(p))
				return nil
			})
		},
	}
}

func newWatchCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print light changes as they happen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withHue(cmd, func(_ *app.App, hue *app.HueService) error {
				log.Info().Int("lights", hue.Network.Len()).Msg("Watching for light changes")

				return hue.Watch(cmd.Context(), func(l *lights.Light, ev v2.LightEvent) {
					row := lightRow(l)
					fmt.Fprintf(cmd.OutOrStdout(), "%-20s on=%s bri=%s color=%s\n", row[0], row[2], row[3], row[4])
				})
			})
		},
	}
}

func newRunCommand(g *globals) *cobra.Command {
	var (
		offline bool
		eval    string
	)
	cmd := &cobra.Command{
		Use:   "run [script.lua]",
		Short: "Run a Lua script",
		Long: "Run a Lua script with the color, log, utils and store modules.\n" +
			"Unless --offline is set the hue and events modules are bound to the bridge;\n" +
			"a script that registers events.on_light handlers keeps running until interrupted.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (eval == "") == (len(args) == 0) {
				return errors.New("pass either a script path or --eval")
			}

			return g.withApp(func(a *app.App) error {
				var hue *app.HueService
				if !offline {
					var err error
					hue, err = a.Hue(cmd.Context())
					if err != nil {
						return err
					}
					defer hue.Close()
				}

				svc, err := app.NewLuaService(a.Config(), hue, a.ScriptStore())
				if err != nil {
					return err
				}
				defer svc.Close()

				if eval != "" {
					return svc.RunString(cmd.Context(), eval)
				}
				return svc.RunScript(cmd.Context(), args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Do not connect to the bridge")
	cmd.Flags().StringVarP(&eval, "eval", "e", "", "Run inline Lua source instead of a file")
	return cmd
}
