/*
Copyright © 2026 the gridtiff authors.
This file is part of gridtiff.

gridtiff is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gridtiff is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gridtiff.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package gtutil holds the gridtiff command-line interface.
package gtutil

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/gridtiff"
	"github.com/spatialmodel/gridtiff/server"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to gridtiff.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "TempDir",
			usage: `
              TempDir is the directory where rasters are built before they
              are sent or copied to their destination.`,
			defaultVal: gridtiff.DefaultTempDir,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "DefaultGCS",
			usage: `
              DefaultGCS is the geographic coordinate system written to
              rasters: one of WGS84, WGS72, NAD83 and NAD27, or an EPSG code
              such as EPSG:4326.`,
			defaultVal: gridtiff.DefaultGCS,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Driver",
			usage: `
              Driver is the raster driver used to write GeoTIFFs. "gdal"
              writes through the GDAL library and is registered by the
              gridtiff command. "geotiff" is a pure-Go writer for programs
              built without cgo.`,
			defaultVal: "gdal",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages: debug, info,
              warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ce",
			usage: `
              ce is a constraint expression selecting the variable to export
              and, optionally, hyperslabs of its dimensions, for example
              "sst[0][10:20][30:2:40]".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), infoCmd.Flags(), previewCmd.Flags()},
		},
		{
			name: "Server.Address",
			usage: `
              Server.Address is the address the server listens on.`,
			defaultVal: ":8080",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "Server.Root",
			usage: `
              Server.Root is the directory holding the datasets that the
              server exports.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "Server.CacheSize",
			usage: `
              Server.CacheSize is the number of recent GeoTIFFs kept in
              memory by the server.`,
			defaultVal: 32,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables, for
	// example GRIDTIFF_SERVER_ADDRESS.
	Cfg.SetEnvPrefix("GRIDTIFF")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(convertCmd)
	Root.AddCommand(infoCmd)
	Root.AddCommand(previewCmd)
	Root.AddCommand(serveCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("gridtiff: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "gridtiff",
	Short: "Export gridded NetCDF variables as GeoTIFFs.",
	Long: `gridtiff exports a gridded variable, an array with latitude and longitude
map vectors, from a NetCDF file as a single-band GeoTIFF.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GRIDTIFF_var' where 'var'
is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of gridtiff.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("gridtiff v%s\n", gridtiff.Version)
	},
	DisableAutoGenTag: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert input output",
	Short: "Export a gridded variable as a GeoTIFF.",
	Long: `convert exports the gridded variable of the input NetCDF file selected by
--ce as a GeoTIFF. Either path may refer to blob storage
(gs://bucket/key, s3://bucket/key or file://dir/key).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := NewConfig(Cfg)
		if err != nil {
			return err
		}
		d, err := Driver(Cfg.GetString("Driver"))
		if err != nil {
			return err
		}
		return Convert(context.Background(), cfg, d, args[0], args[1], Cfg.GetString("ce"))
	},
	DisableAutoGenTag: true,
}

var infoCmd = &cobra.Command{
	Use:   "info input",
	Short: "Describe a NetCDF file or GeoTIFF.",
	Long: `info prints the variables of a NetCDF file together with the extent,
geotransform, footprint and value summary of the grid selected by --ce.
For a GeoTIFF it prints the georeferencing and a value summary.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := NewConfig(Cfg)
		if err != nil {
			return err
		}
		return Info(context.Background(), cmd.OutOrStdout(), cfg, args[0], Cfg.GetString("ce"))
	},
	DisableAutoGenTag: true,
}

var previewCmd = &cobra.Command{
	Use:   "preview input output.png",
	Short: "Plot a gridded variable.",
	Long: `preview writes a heat map of the gridded variable selected by --ce as
it would be exported, after no-data values have been rescaled.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := NewConfig(Cfg)
		if err != nil {
			return err
		}
		return Preview(context.Background(), cfg, args[0], args[1], Cfg.GetString("ce"))
	},
	DisableAutoGenTag: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve GeoTIFFs over HTTP.",
	Long: `serve starts an HTTP server that exports the NetCDF files under
--Server.Root. A request for /path/file.nc.tif?ce returns the grid of
path/file.nc selected by the constraint expression ce as a GeoTIFF.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := NewConfig(Cfg)
		if err != nil {
			return err
		}
		d, err := Driver(Cfg.GetString("Driver"))
		if err != nil {
			return err
		}
		size, err := cast.ToIntE(Cfg.Get("Server.CacheSize"))
		if err != nil {
			return fmt.Errorf("gridtiff: invalid Server.CacheSize: %v", err)
		}
		s := server.New(cfg, os.ExpandEnv(Cfg.GetString("Server.Root")), d, cfg.Logger(), size)
		srv := &http.Server{
			Addr:              Cfg.GetString("Server.Address"),
			Handler:           s,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		}
		cfg.Logger().Infof("listening on http://%s", srv.Addr)
		return srv.ListenAndServe()
	},
	DisableAutoGenTag: true,
}
