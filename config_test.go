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
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		tempDir, gcs string
		wantDir      string
		wantEPSG     int
	}{
		{wantDir: "/tmp", wantEPSG: 4326},
		{tempDir: "/var/tmp/", gcs: "NAD83", wantDir: "/var/tmp", wantEPSG: 4269},
		{tempDir: "/data//", wantDir: "/data", wantEPSG: 4326},
		{tempDir: "/", wantDir: "/", wantEPSG: 4326},
		{tempDir: "scratch", gcs: "EPSG:4267", wantDir: "scratch", wantEPSG: 4267},
	}
	for _, test := range tests {
		c, err := NewConfig(test.tempDir, test.gcs)
		if err != nil {
			t.Errorf("%q %q: %v", test.tempDir, test.gcs, err)
			continue
		}
		if c.TempDir != test.wantDir {
			t.Errorf("%q: temp dir %q, want %q", test.tempDir, c.TempDir, test.wantDir)
		}
		if c.GCS.EPSG != test.wantEPSG {
			t.Errorf("%q: EPSG %d, want %d", test.gcs, c.GCS.EPSG, test.wantEPSG)
		}
	}
}

func TestNewConfigBadGCS(t *testing.T) {
	if _, err := NewConfig("", "nowhere"); err == nil {
		t.Error("expected error")
	}
}

func TestConfigLog(t *testing.T) {
	var c *Config
	if c.Logger() != logrus.StandardLogger() {
		t.Error("nil config should log to the standard logger")
	}
	l := logrus.New()
	c = &Config{Log: l}
	if c.Logger() != l {
		t.Error("configured logger not used")
	}
}
