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
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/spatialmodel/gridtiff/dap"
)

// Export writes the selected grid of ds as a raster to w. The raster is
// built in a temporary file in cfg.TempDir, which is removed before
// Export returns.
func Export(cfg *Config, ds *dap.Dataset, w io.Writer, d Driver) error {
	f, err := ioutil.TempFile(cfg.TempDir, "geotiff")
	if err != nil {
		return fmt.Errorf("%w: creating temporary file: %v", ErrExport, err)
	}
	name := f.Name()
	defer os.Remove(name)
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	cfg.Logger().WithField("file", name).Debug("transforming to temporary file")

	if err := NewTransformer(cfg, d).Transform(ds, name); err != nil {
		return err
	}

	r, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	defer r.Close()
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("%w: sending %s: %v", ErrExport, ds.Name, err)
	}
	return nil
}
