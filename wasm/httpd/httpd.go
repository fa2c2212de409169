// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// httpd serves the WASM build of tileflow for local testing
package main

import (
	"flag"
	"net/http"
	"os"
	"strings"

	"github.com/jetsetilly/tileflow/logger"
)

type handler struct {
	fileHandler http.Handler
}

func newHandler(dir string) *handler {
	return &handler{
		fileHandler: http.FileServer(http.Dir(dir)),
	}
}

func (hnd *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger.Logf(logger.Allow, "httpd", "%s %s", r.Method, r.RequestURI)
	if strings.HasSuffix(r.RequestURI, ".wasm") {
		w.Header().Set("Content-Type", "application/wasm")
	}
	hnd.fileHandler.ServeHTTP(w, r)
}

func main() {
	var addr string
	var dir string

	flag.StringVar(&addr, "addr", "localhost:7800", "address to listen on")
	flag.StringVar(&dir, "dir", "www", "directory containing the WASM build")
	flag.Parse()

	logger.SetEcho(os.Stdout, false)
	logger.Logf(logger.Allow, "httpd", "serving %s on %s", dir, addr)

	err := http.ListenAndServe(addr, newHandler(dir))
	if err != nil {
		logger.Log(logger.Allow, "httpd", err)
		os.Exit(10)
	}
}
