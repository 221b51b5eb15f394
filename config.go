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

package gridtiff

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultTempDir is the directory used for temporary rasters when
	// none is configured.
	DefaultTempDir = "/tmp"

	// DefaultGCS is the coordinate system stamped on rasters when none is
	// configured.
	DefaultGCS = "WGS84"
)

// Config holds the settings shared by every export. It is created once
// and passed to the components that need it.
type Config struct {
	// TempDir is where temporary rasters are written. It has no trailing
	// slash.
	TempDir string

	// GCS is the geographic coordinate system of exported rasters.
	GCS SpatialRef

	// Log receives progress messages. It may be nil.
	Log logrus.FieldLogger
}

// NewConfig returns a configuration using tempDir and the coordinate
// system named by gcs, falling back to DefaultTempDir and DefaultGCS for
// empty values.
func NewConfig(tempDir, gcs string) (*Config, error) {
	if tempDir == "" {
		tempDir = DefaultTempDir
	}
	if len(tempDir) > 1 {
		tempDir = strings.TrimRight(tempDir, "/")
		if tempDir == "" {
			tempDir = "/"
		}
	}
	if gcs == "" {
		gcs = DefaultGCS
	}
	sr, err := LookupGCS(gcs)
	if err != nil {
		return nil, err
	}
	return &Config{TempDir: tempDir, GCS: sr}, nil
}

// Logger returns c.Log, or the standard logger if it is not set.
func (c *Config) Logger() logrus.FieldLogger {
	if c == nil || c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}
