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

package cloud

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Uploader stands in local temporary files for output paths that
// refer to blob storage, and uploads them once they have been written.
type Uploader struct {
	// files holds pairs of local path and blob storage destination.
	files [][2]string
	dir   string
	err   error

	Log logrus.FieldLogger
}

// Local returns path if it is a local file path. If path refers to blob
// storage, a temporary local path is returned instead and the file
// written there is uploaded to path when Flush is called.
func (u *Uploader) Local(path string) string {
	if !IsBlob(path) {
		return path
	}
	if u.dir == "" {
		u.dir, u.err = ioutil.TempDir("", "gridtiff_upload")
		if u.err != nil {
			return path
		}
	}
	local := filepath.Join(u.dir, fmt.Sprintf("%d_%s", len(u.files), filepath.Base(path)))
	u.files = append(u.files, [2]string{local, path})
	return local
}

// Flush uploads all files registered with Local and removes
// the temporary local copies.
func (u *Uploader) Flush(ctx context.Context) error {
	if u.err != nil {
		return fmt.Errorf("cloud: creating upload directory: %v", u.err)
	}
	if u.dir == "" {
		return nil
	}
	defer func() {
		os.RemoveAll(u.dir)
		u.dir = ""
		u.files = nil
	}()
	for _, f := range u.files {
		if err := Upload(ctx, f[0], f[1], u.Log); err != nil {
			return err
		}
	}
	return nil
}
