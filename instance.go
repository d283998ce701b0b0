/*
	Copyright NetFoundry, Inc.

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
	"net/http"
	"sync"
	"time"

	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// Instance loads a configuration section describing servers and their APIs and runs them.
type Instance interface {
	DefaultHttpHandlerProvider
	Enabled() bool
	LoadConfig(cfgmap map[string]interface{}) error
	Run() error
	Shutdown()
	GetRegistry() Registry
	GetDemuxFactory() DemuxFactory
	GetConfig() *InstanceConfig
}

const (
	DefaultConfigSection = "web"
	ShutdownTimeout      = 15 * time.Second
)

// InstanceImpl is a basic implementation of Instance.
type InstanceImpl struct {
	DefaultHttpHandlerProviderImpl
	Config       *InstanceConfig
	servers      []*Server
	Registry     Registry
	DemuxFactory DemuxFactory

	// OnServerError is called when a Server stops with an error. Defaults to logging the error.
	OnServerError func(server *Server, err error)

	shutdown atomic.Bool
}

var _ Instance = &InstanceImpl{}

func NewDefaultInstance(registry Registry) *InstanceImpl {
	return &InstanceImpl{
		Registry:     registry,
		DemuxFactory: &SegmentDemuxFactory{},
		Config: &InstanceConfig{
			Section: DefaultConfigSection,
		},
	}
}

// GetRegistry returns the associated Registry
func (i *InstanceImpl) GetRegistry() Registry {
	return i.Registry
}

// GetDemuxFactory returns the associated DemuxFactory
func (i *InstanceImpl) GetDemuxFactory() DemuxFactory {
	return i.DemuxFactory
}

// GetConfig returns the associated InstanceConfig
func (i *InstanceImpl) GetConfig() *InstanceConfig {
	return i.Config
}

// Enabled returns true/false on whether this instance has a validated configuration
func (i *InstanceImpl) Enabled() bool {
	return i.Config.Enabled()
}

// LoadConfig parses and validates the instance configuration section of cfgmap
func (i *InstanceImpl) LoadConfig(cfgmap map[string]interface{}) error {
	if err := i.Config.Parse(cfgmap); err != nil {
		return err
	}

	//validate sets enabled flag to true on success
	if err := i.Config.Validate(i.Registry); err != nil {
		return err
	}

	return nil
}

// Build assembles all the xgate components from configuration and prepares to have Start() called.
func (i *InstanceImpl) Build() error {
	if !i.Enabled() {
		return errors.New("configuration has not been loaded and validated")
	}

	for _, serverConfig := range i.Config.ServerConfigs {
		server, err := NewServer(i, serverConfig)

		if err != nil {
			return errors.Wrapf(err, "error building server %s", serverConfig.Name)
		}

		i.servers = append(i.servers, server)
	}

	return nil
}

// Start calls Start() on all Servers that were built by calling Build().
func (i *InstanceImpl) Start() {
	for _, server := range i.servers {
		s := server //avoid closure scoping issues
		go func() {
			if err := s.Start(); err != nil {
				if i.OnServerError != nil {
					i.OnServerError(s, err)
					return
				}
				pfxlog.Logger().Errorf("error starting server %s: %v", s.ServerConfig.Name, err)
			}
		}()
	}
}

// Run builds and starts the necessary Server's
func (i *InstanceImpl) Run() error {
	if err := i.Build(); err != nil {
		return err
	}
	i.Start()
	return nil
}

// Servers returns the Server's created by Build().
func (i *InstanceImpl) Servers() []*Server {
	return i.servers
}

// Shutdown stops all running Server's and waits for them to finish. Only the first call has any effect.
func (i *InstanceImpl) Shutdown() {
	if i.shutdown.Swap(true) {
		return
	}

	wg := sync.WaitGroup{}
	for _, server := range i.servers {
		localServer := server
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
			defer cancel()
			localServer.Shutdown(ctx)
		}()
	}
	wg.Wait()
}

// DefaultHttpHandlerProvider is an interface that allows different levels of xgate's components: Instance, ServerConfig,
// Server. The default handler used when no matching ApiHandler is found is: Instance > ServerConfig > Server
type DefaultHttpHandlerProvider interface {
	GetDefaultHttpHandler() http.Handler
	SetDefaultHttpHandler(handler http.Handler)
	SetParent(parent DefaultHttpHandlerProvider)
}

type DefaultHttpHandlerProviderImpl struct {
	Parent      DefaultHttpHandlerProvider
	HttpHandler http.Handler
}

var _ DefaultHttpHandlerProvider = &DefaultHttpHandlerProviderImpl{}

func handler404(rw http.ResponseWriter, _ *http.Request) {
	rw.WriteHeader(http.StatusNotFound)
	_, _ = rw.Write([]byte{})
}

func (d *DefaultHttpHandlerProviderImpl) GetDefaultHttpHandler() http.Handler {
	if d.HttpHandler == nil && d.Parent != nil {
		if handler := d.Parent.GetDefaultHttpHandler(); handler == nil {
			return http.HandlerFunc(handler404)
		} else {
			return handler
		}
	}

	return d.HttpHandler
}

func (d *DefaultHttpHandlerProviderImpl) SetDefaultHttpHandler(handler http.Handler) {
	d.HttpHandler = handler
}

func (d *DefaultHttpHandlerProviderImpl) SetParent(parent DefaultHttpHandlerProvider) {
	d.Parent = parent
}
