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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestIsBlob(t *testing.T) {
	for path, want := range map[string]bool{
		"gs://bucket/out.tif": true,
		"s3://bucket/out.tif": true,
		"file://dir/out.tif":  true,
		"/tmp/out.tif":        false,
		"out.tif":             false,
		"http://x/out.tif":    false,
	} {
		if got := IsBlob(path); got != want {
			t.Errorf("%s: have %v, want %v", path, got, want)
		}
	}
}

func TestSplitBlob(t *testing.T) {
	b, k, err := splitBlob("gs://bucket/a/b/out.tif")
	if err != nil {
		t.Fatal(err)
	}
	if b != "gs://bucket" || k != "a/b/out.tif" {
		t.Errorf("have %s %s", b, k)
	}
	if _, _, err := splitBlob("gs://bucket"); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestOpenBucketInvalid(t *testing.T) {
	if _, err := OpenBucket(context.Background(), "ftp://bucket"); err == nil {
		t.Error("expected error")
	}
}

func TestUploadDownload(t *testing.T) {
	const bucketDir = "testbucket"
	if err := os.Mkdir(bucketDir, 0755); err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(bucketDir)

	ctx := context.Background()
	u := &Uploader{}
	local := u.Local("file://testbucket/out.tif")
	if local == "file://testbucket/out.tif" {
		t.Fatal("blob path should be replaced by a local path")
	}
	if got := u.Local("plain.tif"); got != "plain.tif" {
		t.Errorf("local path changed to %s", got)
	}
	want := []byte("raster bytes")
	if err := ioutil.WriteFile(local, want, 0644); err != nil {
		t.Fatal(err)
	}
	if err := u.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(local); !os.IsNotExist(err) {
		t.Error("temporary upload file was not removed")
	}

	dir, err := ioutil.TempDir("", "gridtiff_download")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path, err := Download(ctx, "file://testbucket/out.tif", dir)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "out.tif") {
		t.Errorf("download path %s", path)
	}
	got, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Errorf("have %q, want %q", got, want)
	}
}

func TestUploadMissingFile(t *testing.T) {
	const bucketDir = "testbucket_missing"
	if err := os.Mkdir(bucketDir, 0755); err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(bucketDir)
	err := Upload(context.Background(), "does_not_exist.tif", "file://testbucket_missing/x.tif", nil)
	if err == nil {
		t.Error("expected error")
	}
}
