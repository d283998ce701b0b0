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

package xgate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
)

// DemuxFactory generates a http.Handler that interrogates a http.Request and routes them to ApiHandler instances. The selected
// ApiHandler is added to the context with a key of HandlerContextKey. Each DemuxFactory implementation must define
// its own behaviors for an unmatched http.Request.
type DemuxFactory interface {
	Build(handlers []ApiHandler) (DemuxHandler, error)
}

type DemuxHandler interface {
	DefaultHttpHandlerProvider
	http.Handler
}

type DemuxHandlerImpl struct {
	DefaultHttpHandlerProviderImpl
	Handler http.Handler
}

var _ DemuxHandler = &DemuxHandlerImpl{}

func (d *DemuxHandlerImpl) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	d.Handler.ServeHTTP(writer, request)
}

// SegmentDemuxFactory is a DemuxFactory that routes http.Request requests to a specific ApiHandler by the first
// segment of the URL path. A handler with the root path "/a" receives "/a" and "/a/..." but never "/ab". The segment
// is removed from the path before the ApiHandler sees the request, everything else (method, headers, body, query) is
// passed as is and the response is not touched.
//
// A default ApiHandler that is a SegmentReservingApiHandler keeps its segments: Build fails for any other handler
// rooted on one of them.
//
// Unmatched requests go to the default ApiHandler if one declares itself, then to the factory's default http.Handler,
// then to the default http.Handler chain of the DemuxHandler and finally receive an empty http.StatusNotFound (404).
type SegmentDemuxFactory struct {
	DefaultHttpHandlerProviderImpl
}

var _ DemuxFactory = &SegmentDemuxFactory{}

// Build performs ApiHandler selection based on the first URL path segment
func (factory *SegmentDemuxFactory) Build(handlers []ApiHandler) (DemuxHandler, error) {
	defaultApi, err := getDefault(handlers)

	if err != nil {
		return nil, err
	}

	reserved := map[string]bool{}
	if reserving, ok := defaultApi.(SegmentReservingApiHandler); ok {
		for _, segment := range reserving.ReservedSegments() {
			reserved[segment] = true
		}
	}

	handlerMap := map[string]ApiHandler{}

	for _, handler := range handlers {
		if handler == defaultApi && handler.RootPath() == "/" {
			continue
		}

		segment, err := rootSegment(handler.RootPath())
		if err != nil {
			return nil, errors.Wrapf(err, "invalid root path for binding [%s]", handler.Binding())
		}

		if reserved[segment] {
			return nil, fmt.Errorf("root path [%s] of binding [%s] is reserved by default binding [%s]", handler.RootPath(), handler.Binding(), defaultApi.Binding())
		}

		if existing, ok := handlerMap[segment]; ok {
			return nil, fmt.Errorf("duplicate root path [%s] detected for both bindings [%s] and [%s]", handler.RootPath(), handler.Binding(), existing.Binding())
		}
		handlerMap[segment] = handler
	}

	demux := &DemuxHandlerImpl{}

	demux.Handler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		segment, rest := splitSegment(request.URL.Path)

		if handler, ok := handlerMap[segment]; ok {
			handler.ServeHTTP(writer, forwardRequest(request, handler, rest))
			return
		}

		if defaultApi != nil {
			ctx := context.WithValue(request.Context(), HandlerContextKey, defaultApi)
			defaultApi.ServeHTTP(writer, request.WithContext(ctx))
			return
		}

		if defaultHttpHandler := factory.GetDefaultHttpHandler(); defaultHttpHandler != nil {
			defaultHttpHandler.ServeHTTP(writer, request)
			return
		}

		if defaultHttpHandler := demux.GetDefaultHttpHandler(); defaultHttpHandler != nil {
			defaultHttpHandler.ServeHTTP(writer, request)
			return
		}

		handler404(writer, request)
	})

	return demux, nil
}

// forwardRequest returns a shallow copy of request addressed to handler with the matched segment removed from the
// path. The original request is left unmodified.
func forwardRequest(request *http.Request, handler ApiHandler, rest string) *http.Request {
	ctx := context.WithValue(request.Context(), HandlerContextKey, handler)
	forwarded := request.WithContext(ctx)

	u := *request.URL
	u.Path = rest
	if u.RawPath != "" {
		_, u.RawPath = splitSegment(u.RawPath)
	}
	forwarded.URL = &u

	return forwarded
}

// splitSegment splits a URL path into its first segment and the remainder. The remainder always starts with "/".
func splitSegment(path string) (string, string) {
	path = strings.TrimPrefix(path, "/")

	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i], path[i:]
	}

	return path, "/"
}

// rootSegment validates that rootPath is exactly one non-empty segment and returns it.
func rootSegment(rootPath string) (string, error) {
	if !strings.HasPrefix(rootPath, "/") {
		return "", errors.Errorf("root path [%s] must start with /", rootPath)
	}

	segment := strings.TrimPrefix(rootPath, "/")
	if segment == "" {
		return "", errors.New("root path must not be empty")
	}

	if strings.Contains(segment, "/") {
		return "", errors.Errorf("root path [%s] must be a single segment", rootPath)
	}

	return segment, nil
}

// getDefault determines from a slice of ApiHandler which will act as the default handler
// should a request not match any handler. At most one handler may declare itself the default,
// if none does no default ApiHandler is used.
func getDefault(handlers []ApiHandler) (ApiHandler, error) {
	var defaults []ApiHandler

	if len(handlers) == 0 {
		return nil, errors.New("no handlers provided")
	}

	for _, handler := range handlers {
		if curHandler, ok := handler.(DefaultApiHandler); ok {
			if curHandler.IsDefault() {
				defaults = append(defaults, curHandler)
			}
		}
	}

	if len(defaults) == 0 {
		pfxlog.Logger().Debug("no default handlers were found, unmatched requests fall through to the default http handler")
		return nil, nil
	}

	if len(defaults) > 1 {
		var names []string
		for _, handler := range defaults {
			name := fmt.Sprintf("[Binding: %s, Type: %T]", handler.Binding(), handler)
			names = append(names, name)
		}

		strNames := strings.Join(names, ",")
		return nil, errors.New("too many default handlers found, ensure that only one handler is marked as the default: " + strNames)
	}

	return defaults[0], nil
}
