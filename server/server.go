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

// Package server serves gridded variables of NetCDF files as GeoTIFFs
// over HTTP.
//
// A request for /dir/file.nc.tif?sst[0][10:20][30:40] exports the
// constrained sst grid of dir/file.nc, relative to the server root.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ctessum/requestcache"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/gridtiff"
	"github.com/spatialmodel/gridtiff/dap"
	"github.com/spatialmodel/gridtiff/internal/hash"
	"github.com/spatialmodel/gridtiff/ncdata"
)

// Suffix is the extension that requests a GeoTIFF.
const Suffix = ".tif"

// Server exports datasets found under a root directory.
type Server struct {
	cfg    *gridtiff.Config
	root   string
	driver gridtiff.Driver
	cache  *requestcache.Cache

	Log logrus.FieldLogger
}

// result is the outcome of one export. Errors are carried inside the
// result so that failed requests still pass through the cache stages.
type result struct {
	tiff []byte
	err  error
}

// New returns a server for the datasets under root. Exports run one at
// a time; identical concurrent requests share one export and the
// cacheSize most recent results are kept in memory.
func New(cfg *gridtiff.Config, root string, d gridtiff.Driver, log logrus.FieldLogger, cacheSize int) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{cfg: cfg, root: root, driver: d, Log: log}
	if cacheSize < 1 {
		cacheSize = 1
	}
	s.cache = requestcache.NewCache(s.process, 1, requestcache.Deduplicate(), requestcache.Memory(cacheSize))
	return s
}

func (s *Server) process(ctx context.Context, payload interface{}) (interface{}, error) {
	req := payload.(hash.Request)
	start := time.Now()
	b, err := s.export(req)
	s.Log.WithFields(logrus.Fields{
		"path":       req.Path,
		"constraint": req.Constraint,
		"duration":   time.Since(start),
	}).Debug("processed request")
	return &result{tiff: b, err: err}, nil
}

func (s *Server) export(req hash.Request) ([]byte, error) {
	f, err := ncdata.Open(filepath.Join(s.root, filepath.FromSlash(req.Path)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if req.Constraint != "" {
		if err := f.Apply(req.Constraint); err != nil {
			return nil, err
		}
	}
	var b bytes.Buffer
	if err := gridtiff.Export(s.cfg, f.Dataset, &b, s.driver); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	p := path.Clean("/" + r.URL.Path)
	if !strings.HasSuffix(p, Suffix) || len(p) == len(Suffix)+1 {
		http.NotFound(w, r)
		return
	}
	rel := strings.TrimPrefix(strings.TrimSuffix(p, Suffix), "/")
	fi, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil || fi.IsDir() {
		http.NotFound(w, r)
		return
	}
	ce, err := url.PathUnescape(r.URL.RawQuery)
	if err != nil {
		http.Error(w, fmt.Sprintf("%v: %v", dap.ErrConstraint, err), http.StatusBadRequest)
		return
	}
	req := hash.Request{
		Path:       rel,
		Constraint: ce,
		GCS:        s.cfg.GCS.Name,
		ModTime:    fi.ModTime().UnixNano(),
	}
	log := s.Log.WithFields(logrus.Fields{"path": rel, "constraint": req.Constraint})

	res, err := s.cache.NewRequest(r.Context(), req, req.Key()).Result()
	if err == nil {
		err = res.(*result).err
	}
	if err != nil {
		code := StatusCode(err)
		if code == http.StatusInternalServerError {
			log.WithError(err).Error("export failed")
		} else {
			log.WithError(err).Info("bad request")
		}
		http.Error(w, err.Error(), code)
		return
	}
	b := res.(*result).tiff
	w.Header().Set("Content-Type", "image/tiff")
	w.Header().Set("Content-Length", fmt.Sprint(len(b)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(rel)+Suffix))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(b); err != nil {
		log.WithError(err).Warn("sending response")
	}
}

// StatusCode returns the HTTP status for an export error.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, gridtiff.ErrCoordinateNotFound),
		errors.Is(err, gridtiff.ErrUnsupportedShape),
		errors.Is(err, gridtiff.ErrBandMismatch),
		errors.Is(err, dap.ErrConstraint):
		return http.StatusBadRequest
	case os.IsNotExist(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
