package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dokzlo13/huectl/internal/color"
)

// newConvertCommand groups the offline color conversions.
func newConvertCommand(g *globals) *cobra.Command {
	var gamut string

	converter := func() (*color.Converter, error) {
		code := gamut
		if code == "" {
			code = g.cfg.Hue.DefaultGamut
		}
		gm, err := color.SelectGamut(code)
		if err != nil {
			return nil, err
		}
		return color.NewConverter(gm), nil
	}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert colors without a bridge",
	}
	cmd.PersistentFlags().StringVarP(&gamut, "gamut", "g", "", "Gamut code (A, B, C) or light model id; defaults to hue.default_gamut")

	cmd.AddCommand(&cobra.Command{
		Use:   "rgb <r,g,b | r g b>",
		Short: "Convert an RGB color to xy",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				rgb color.RGB
				err error
			)
			switch len(args) {
			case 1:
				rgb, err = parseRGB(args[0])
			case 3:
				rgb, err = parseChannels(args)
			default:
				err = fmt.Errorf("expected r,g,b or three channels")
			}
			if err != nil {
				return err
			}

			conv, err := converter()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatXY(conv.RGBToXY(rgb)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "hex <#rrggbb>",
		Short: "Convert a hex color to xy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := converter()
			if err != nil {
				return err
			}
			p, err := conv.HexToXY(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatXY(p))
			return nil
		},
	})

	var bri float64
	xyCmd := &cobra.Command{
		Use:   "xy <x> <y>",
		Short: "Convert an xy point to RGB and hex",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseXY(args[0], args[1])
			if err != nil {
				return err
			}
			conv, err := converter()
			if err != nil {
				return err
			}

			rgb := conv.XYToRGB(p.X, p.Y, bri)
			fmt.Fprintf(cmd.OutOrStdout(), "#%s %s\n", color.RGBToHex(rgb), rgbString(rgb))
			return nil
		},
	}
	xyCmd.Flags().Float64VarP(&bri, "bri", "b", 1, "Brightness in [0, 1]")
	cmd.AddCommand(xyCmd)

	return cmd
}

func rgbString(rgb color.RGB) string {
	return strconv.Itoa(int(rgb.R)) + "," + strconv.Itoa(int(rgb.G)) + "," + strconv.Itoa(int(rgb.B))
}
