package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manzanit0/geocoding/pkg/env"
	"github.com/manzanit0/geocoding/pkg/geocode"
	"github.com/manzanit0/geocoding/pkg/logger"
	"github.com/manzanit0/geocoding/pkg/settings"
	"github.com/manzanit0/geocoding/pkg/whttp"
	"github.com/spf13/cobra"
)

var (
	provider string
	apiKey   string
	debug    bool
)

var rootCmd = &cobra.Command{
	Use:   "geocode",
	Short: "geocode addresses with OpenStreetMap, Doris or Google Maps",
	Long: `
geocode looks addresses up against a geocoding provider and prints the
candidates it returns, or turns a longitude/latitude pair back into a label.
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitGlobalSlog("geocode", debug)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", env.Provider(),
		fmt.Sprintf("geocoding provider (%s)", strings.Join(geocode.Providers(), ", ")))
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", env.GoogleAPIKey(), "Google Maps API key")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log outgoing request URLs")

	rootCmd.AddCommand(searchCmd, reverseCmd)
}

func newGeocoder() (geocode.Geocoder, error) {
	var s geocode.Settings = settings.Env{}
	if debug {
		s = settings.Static(true)
	}

	t := whttp.NewFetcher(whttp.NewLoggingClient(), env.UserAgent())

	return geocode.New(provider, t,
		geocode.WithAPIKey(apiKey),
		geocode.WithDiagnostics(s, logger.NewSink(nil)))
}

var searchCmd = &cobra.Command{
	Use:   "search <address...>",
	Short: "find coordinates for an address",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := newGeocoder()
		if err != nil {
			return err
		}

		results, err := g.Geocode(strings.Join(args, " "))
		if err != nil {
			return err
		}

		return renderResults(cmd.OutOrStdout(), results)
	},
}

var reverseCmd = &cobra.Command{
	Use:     "reverse <lon> <lat>",
	Short:   "find the place at a coordinate",
	Example: "  geocode reverse 16.3725 48.2083\n  geocode reverse -- -77.2652 38.9012",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lon, lat, err := parseLonLat(args[0], args[1])
		if err != nil {
			return err
		}

		g, err := newGeocoder()
		if err != nil {
			return err
		}

		results, err := g.Reverse(lon, lat)
		if err != nil {
			return err
		}

		return renderResults(cmd.OutOrStdout(), results)
	},
}

func parseLonLat(rawLon, rawLat string) (float64, float64, error) {
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("invalid longitude %q", rawLon)
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("invalid latitude %q", rawLat)
	}

	return lon, lat, nil
}
