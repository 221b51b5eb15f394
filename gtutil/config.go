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

package gtutil

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/gridtiff"
	"github.com/spatialmodel/gridtiff/geotiff"
)

// drivers holds the pure-Go geotiff driver, which needs no cgo. The
// default gdal driver is registered by cmd/gridtiff.
var drivers = map[string]gridtiff.Driver{
	"geotiff": geotiff.Driver{},
}

// RegisterDriver makes d available under name to the Driver
// configuration option.
func RegisterDriver(name string, d gridtiff.Driver) {
	drivers[strings.ToLower(name)] = d
}

// Driver returns the raster driver registered under name.
func Driver(name string) (gridtiff.Driver, error) {
	if d, ok := drivers[strings.ToLower(name)]; ok {
		return d, nil
	}
	var names []string
	for n := range drivers {
		names = append(names, n)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("gridtiff: unknown driver %q; available drivers are %s", name, strings.Join(names, ", "))
}

// NewConfig creates the export configuration from the settings in cfg.
func NewConfig(cfg *viper.Viper) (*gridtiff.Config, error) {
	log, err := newLogger(cfg.GetString("LogLevel"))
	if err != nil {
		return nil, err
	}
	c, err := gridtiff.NewConfig(os.ExpandEnv(cfg.GetString("TempDir")), cfg.GetString("DefaultGCS"))
	if err != nil {
		return nil, err
	}
	c.Log = log
	log.WithFields(logrus.Fields{
		"tempdir": c.TempDir,
		"gcs":     c.GCS.String(),
	}).Debug("configured")
	return c, nil
}

// newLogger configures the standard logger to print at level.
func newLogger(level string) (*logrus.Logger, error) {
	lvl := logrus.InfoLevel
	if level != "" {
		var err error
		if lvl, err = logrus.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("gridtiff: %v", err)
		}
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
	return logrus.StandardLogger(), nil
}
