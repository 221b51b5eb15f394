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
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
	"gocloud.dev/blob"
)

// MaxRetries is the number of times a failed upload is retried.
var MaxRetries uint64 = 5

// Upload copies the local file at localPath to the blob storage
// location blobPath (e.g., "gs://bucket/dir/out.tif"), retrying
// failures with exponential backoff.
func Upload(ctx context.Context, localPath, blobPath string, log logrus.FieldLogger) error {
	bucketName, key, err := splitBlob(blobPath)
	if err != nil {
		return err
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("cloud: opening bucket to upload %q: %v", blobPath, err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), MaxRetries), ctx)
	return backoff.RetryNotify(
		func() error {
			return writeBlob(ctx, bucket, key, localPath)
		},
		b,
		func(err error, d time.Duration) {
			log.WithField("blob", blobPath).Warnf("%v: retrying in %v", err, d)
		},
	)
}

// writeBlob copies the file at localPath into key of bucket.
func writeBlob(ctx context.Context, bucket *blob.Bucket, key, localPath string) error {
	r, err := os.Open(localPath)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("cloud: opening %q for upload: %v", localPath, err))
	}
	defer r.Close()
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{})
	if err != nil {
		return fmt.Errorf("cloud: creating writer for blob %s: %v", key, err)
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("cloud: copying blob %s: %v", key, err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("cloud: writing blob %s: %v", key, err)
	}
	return nil
}

// Download copies the blob at blobPath into directory dir and returns
// the path of the local copy.
func Download(ctx context.Context, blobPath, dir string) (string, error) {
	bucketName, key, err := splitBlob(blobPath)
	if err != nil {
		return "", err
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return "", fmt.Errorf("cloud: opening bucket to download %q: %v", blobPath, err)
	}
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return "", fmt.Errorf("cloud: reading blob %s: %v", key, err)
	}
	defer r.Close()
	path := filepath.Join(dir, filepath.Base(key))
	w, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("cloud: creating local copy of %q: %v", blobPath, err)
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("cloud: downloading %q: %v", blobPath, err)
	}
	if err = w.Close(); err != nil {
		return "", fmt.Errorf("cloud: downloading %q: %v", blobPath, err)
	}
	return path, nil
}
