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
	"net/http"
)

// ApiHandlerFactory builds ApiHandler instances for a single binding. Factories are added to a Registry and looked up
// by the binding named in an ApiConfig.
type ApiHandlerFactory interface {
	Binding() string
	New(serverConfig *ServerConfig, options map[string]interface{}) (ApiHandler, error)
	Validate(config *InstanceConfig) error
}

// ApiHandler is a http.Handler with metadata that a DemuxHandler uses to route requests to it.
type ApiHandler interface {
	Binding() string
	Options() map[string]interface{}
	RootPath() string
	IsHandler(r *http.Request) bool
	http.Handler
}

// DefaultApiHandler is an ApiHandler that may ask to receive every request no other ApiHandler claims.
type DefaultApiHandler interface {
	ApiHandler
	IsDefault() bool
}

// SegmentReservingApiHandler is a DefaultApiHandler that serves paths below fixed first segments. No other ApiHandler
// may be mounted on one of those segments.
type SegmentReservingApiHandler interface {
	DefaultApiHandler
	ReservedSegments() []string
}

// DescribedApiHandler is an ApiHandler that is listed in the ServiceRegistry of the Server that hosts it.
type DescribedApiHandler interface {
	ApiHandler
	Descriptor() ServiceDescriptor
}

// ServiceRegistryAware is implemented by ApiHandler's that need the ServiceRegistry of their Server. The registry is
// provided once, after all handlers for the Server have been built.
type ServiceRegistryAware interface {
	SetServiceRegistry(registry *ServiceRegistry)
}

// ServiceApiHandler mounts a plain http.Handler under the root segment of its ServiceDescriptor. Requests reach the
// wrapped handler with that segment already removed from the path.
type ServiceApiHandler struct {
	binding    string
	options    map[string]interface{}
	descriptor ServiceDescriptor
	handler    http.Handler
}

var _ DescribedApiHandler = &ServiceApiHandler{}

// NewServiceApiHandler creates a ServiceApiHandler for the given binding.
func NewServiceApiHandler(binding string, descriptor ServiceDescriptor, options map[string]interface{}, handler http.Handler) *ServiceApiHandler {
	return &ServiceApiHandler{
		binding:    binding,
		options:    options,
		descriptor: descriptor,
		handler:    handler,
	}
}

func (h *ServiceApiHandler) Binding() string {
	return h.binding
}

func (h *ServiceApiHandler) Options() map[string]interface{} {
	return h.options
}

func (h *ServiceApiHandler) RootPath() string {
	return "/" + h.descriptor.Id
}

func (h *ServiceApiHandler) IsHandler(r *http.Request) bool {
	segment, _ := splitSegment(r.URL.Path)
	return segment == h.descriptor.Id
}

func (h *ServiceApiHandler) Descriptor() ServiceDescriptor {
	return h.descriptor
}

func (h *ServiceApiHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	h.handler.ServeHTTP(writer, request)
}
