/*
	Copyright NetFoundry Inc.

	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at

	https://www.apache.org/licenses/LICENSE-2.0

	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package httpapi holds the JSON plumbing shared by the services mounted in an xgate server: response encoding, body
// decoding, error details in the {"detail": ...} shape and the root and docs routes every service exposes.
package httpapi

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
)

// MaxBodyBytes is the largest request body DecodeJSON accepts.
const MaxBodyBytes = 1 << 20

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// WriteJSON writes v as the JSON body of a response with the given status.
func WriteJSON(writer http.ResponseWriter, status int, v interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if err := json.NewEncoder(writer).Encode(v); err != nil {
		pfxlog.Logger().WithError(err).Error("could not encode response")
	}
}

// WriteDetail writes an ErrorDetail response.
func WriteDetail(writer http.ResponseWriter, status int, detail string) {
	WriteJSON(writer, status, &ErrorDetail{Detail: detail})
}

// NotFound is the chi NotFound handler for services and the gateway.
func NotFound(writer http.ResponseWriter, _ *http.Request) {
	WriteDetail(writer, http.StatusNotFound, "Not Found")
}

// MethodNotAllowed is the chi MethodNotAllowed handler for services and the gateway.
func MethodNotAllowed(writer http.ResponseWriter, _ *http.Request) {
	WriteDetail(writer, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// DecodeJSON decodes the body of request into v. Bodies larger than MaxBodyBytes, empty bodies and anything that is
// not a single JSON value are errors.
func DecodeJSON(writer http.ResponseWriter, request *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, MaxBodyBytes))

	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.Wrap(err, "invalid request body")
	}

	if decoder.More() {
		return errors.New("invalid request body: unexpected data after JSON value")
	}

	return nil
}

// Number is a float64 that encodes the non-finite values JSON cannot represent as the strings "Infinity",
// "-Infinity" and "NaN".
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)

	switch {
	case math.IsInf(f, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Infinity"`), nil
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	}

	return json.Marshal(f)
}

// Info is the document served from the root of a service.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Docs        string `json:"docs"`
}

// Route is a single entry of the docs listing.
type Route struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Routes lists every method and path registered on router, ordered by path then method.
func Routes(router chi.Routes) ([]Route, error) {
	var routes []Route

	err := chi.Walk(router, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		path := strings.TrimSuffix(route, "/*")
		if len(path) > 1 {
			path = strings.TrimSuffix(path, "/")
		}

		routes = append(routes, Route{
			Method: method,
			Path:   path,
		})
		return nil
	})

	if err != nil {
		return nil, errors.Wrap(err, "could not walk routes")
	}

	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	return routes, nil
}

// MountInfo registers GET / with info and GET /docs with the route listing of router. The listing is built per
// request, so routes added after MountInfo are included.
func MountInfo(router chi.Router, info Info) {
	router.Get("/", func(writer http.ResponseWriter, _ *http.Request) {
		WriteJSON(writer, http.StatusOK, info)
	})

	router.Get("/docs", func(writer http.ResponseWriter, _ *http.Request) {
		routes, err := Routes(router)
		if err != nil {
			pfxlog.Logger().WithError(err).Error("could not list routes")
			WriteDetail(writer, http.StatusInternalServerError, "could not list routes")
			return
		}

		WriteJSON(writer, http.StatusOK, map[string]interface{}{"routes": routes})
	})
}
