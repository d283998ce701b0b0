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
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/michaelquigley/pfxlog"
	"github.com/openziti/xgate/httpapi"
)

const (
	GatewayBinding = "gateway"
	GatewayName    = "multi-agent-gateway"
	DefaultTitle   = "Multi-Agent Gateway"

	LandingPath = "/"
	HealthPath  = "/health"
	AgentsPath  = "/api/agents"
)

//go:embed templates/landing.html
var landingTemplateSource string

var landingTemplate = template.Must(template.New("landing").Parse(landingTemplateSource))

// GatewayApiFactory builds the GatewayApiHandler. Supported options: title.
type GatewayApiFactory struct{}

var _ ApiHandlerFactory = GatewayApiFactory{}

func (factory GatewayApiFactory) Binding() string {
	return GatewayBinding
}

func (factory GatewayApiFactory) New(_ *ServerConfig, options map[string]interface{}) (ApiHandler, error) {
	title, err := StringOption(options, "title", DefaultTitle)
	if err != nil {
		return nil, err
	}

	return NewGatewayApiHandler(title, options), nil
}

func (factory GatewayApiFactory) Validate(*InstanceConfig) error {
	return nil
}

// GatewayApiHandler serves the gateway's own endpoints: the landing page, the health document and the service
// listing. It is the default ApiHandler and so also answers every request no service claims with a 404.
type GatewayApiHandler struct {
	title    string
	options  map[string]interface{}
	services *ServiceRegistry
	router   chi.Router
}

var _ DefaultApiHandler = &GatewayApiHandler{}
var _ SegmentReservingApiHandler = &GatewayApiHandler{}
var _ ServiceRegistryAware = &GatewayApiHandler{}

// NewGatewayApiHandler creates a GatewayApiHandler with an empty ServiceRegistry.
func NewGatewayApiHandler(title string, options map[string]interface{}) *GatewayApiHandler {
	handler := &GatewayApiHandler{
		title:    title,
		options:  options,
		services: &ServiceRegistry{index: map[string]int{}},
	}

	router := chi.NewRouter()
	router.NotFound(httpapi.NotFound)
	router.MethodNotAllowed(httpapi.MethodNotAllowed)
	router.Get(LandingPath, handler.handleLanding)
	router.Get(HealthPath, handler.handleHealth)
	router.Get(AgentsPath, handler.handleListAgents)
	handler.router = router

	return handler
}

func (handler *GatewayApiHandler) Binding() string {
	return GatewayBinding
}

func (handler *GatewayApiHandler) Options() map[string]interface{} {
	return handler.options
}

func (handler *GatewayApiHandler) RootPath() string {
	return "/"
}

func (handler *GatewayApiHandler) IsHandler(r *http.Request) bool {
	switch r.URL.Path {
	case LandingPath, HealthPath, AgentsPath:
		return true
	}
	return false
}

// ReservedSegments returns the first segments of the gateway's own endpoints, "health" and "api".
func (handler *GatewayApiHandler) ReservedSegments() []string {
	var segments []string
	for _, path := range []string{HealthPath, AgentsPath} {
		segment, _ := splitSegment(path)
		segments = append(segments, segment)
	}
	return segments
}

func (handler *GatewayApiHandler) IsDefault() bool {
	return true
}

func (handler *GatewayApiHandler) SetServiceRegistry(registry *ServiceRegistry) {
	handler.services = registry
}

// Services returns the ServiceRegistry listed by this handler.
func (handler *GatewayApiHandler) Services() *ServiceRegistry {
	return handler.services
}

func (handler *GatewayApiHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	handler.router.ServeHTTP(writer, request)
}

type healthResponse struct {
	Status     string   `json:"status"`
	Gateway    string   `json:"gateway"`
	Agents     []string `json:"agents"`
	AgentCount int      `json:"agent_count"`
}

func (handler *GatewayApiHandler) handleHealth(writer http.ResponseWriter, _ *http.Request) {
	httpapi.WriteJSON(writer, http.StatusOK, healthResponse{
		Status:     "healthy",
		Gateway:    GatewayName,
		Agents:     handler.services.Ids(),
		AgentCount: handler.services.Len(),
	})
}

type agentsResponse struct {
	Agents *ServiceRegistry `json:"agents"`
}

func (handler *GatewayApiHandler) handleListAgents(writer http.ResponseWriter, _ *http.Request) {
	httpapi.WriteJSON(writer, http.StatusOK, agentsResponse{Agents: handler.services})
}

type landingPage struct {
	Title    string
	Services []ServiceDescriptor
}

func (handler *GatewayApiHandler) handleLanding(writer http.ResponseWriter, _ *http.Request) {
	buf := &bytes.Buffer{}
	if err := landingTemplate.Execute(buf, landingPage{Title: handler.title, Services: handler.services.List()}); err != nil {
		pfxlog.Logger().WithError(err).Error("could not render landing page")
		httpapi.WriteDetail(writer, http.StatusInternalServerError, "could not render landing page")
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(buf.Bytes())
}
