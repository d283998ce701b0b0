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
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"sync"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/michaelquigley/pfxlog"
	"github.com/openziti/foundation/v2/debugz"
	"github.com/openziti/xgate/middleware"
	"go.uber.org/atomic"
)

type namedHttpServer struct {
	*http.Server
	ApiBindingList  []string
	BindPointConfig *BindPointConfig
	ServerConfig    *ServerConfig
	InstanceConfig  *InstanceConfig
}

func (s namedHttpServer) NewBaseContext(_ net.Listener) context.Context {
	serverContext := &ServerContext{
		BindPoint:    s.BindPointConfig,
		ServerConfig: s.ServerConfig,
		Config:       s.InstanceConfig,
	}

	ctx := context.Background()
	ctx = context.WithValue(ctx, ServerContextKey, serverContext)

	return ctx
}

// Server represents all the http.Server's and http.Handler's necessary to run a single xgate.ServerConfig
type Server struct {
	DefaultHttpHandlerProviderImpl
	HttpServers    []*namedHttpServer
	Services       *ServiceRegistry
	logWriter      *io.PipeWriter
	tlsConfig      *tls.Config
	OnHandlerPanic func(writer http.ResponseWriter, request *http.Request, panicVal interface{})
	ServerConfig   *ServerConfig
	started        atomic.Bool
}

// NewServer creates a new Server from a ServerConfig. All necessary http.Handler's will be created from the supplied
// DemuxFactory and Registry. The ServiceRegistry of the Server is built here, once, from the described handlers in
// configuration order.
func NewServer(instance Instance, serverConfig *ServerConfig) (*Server, error) {
	logWriter := pfxlog.Logger().Writer()

	server := &Server{
		logWriter:    logWriter,
		HttpServers:  []*namedHttpServer{},
		ServerConfig: serverConfig,
	}

	server.SetParent(instance)

	var handlers []ApiHandler
	var apiBindingList []string
	var descriptors []ServiceDescriptor

	for _, api := range serverConfig.APIs {
		apiFactory := instance.GetRegistry().Get(api.Binding())
		if apiFactory == nil {
			return nil, fmt.Errorf("encountered api binding [%s] which has no associated factory registered", api.Binding())
		}

		handler, err := apiFactory.New(serverConfig, api.Options())
		if err != nil {
			return nil, fmt.Errorf("encountered error building handler for api binding [%s]: %v", api.Binding(), err)
		}

		handlers = append(handlers, handler)
		apiBindingList = append(apiBindingList, api.Binding())

		if described, ok := handler.(DescribedApiHandler); ok {
			descriptors = append(descriptors, described.Descriptor())
		}
	}

	services, err := NewServiceRegistry(descriptors...)
	if err != nil {
		return nil, fmt.Errorf("error creating server: %v", err)
	}
	server.Services = services

	for _, handler := range handlers {
		if aware, ok := handler.(ServiceRegistryAware); ok {
			aware.SetServiceRegistry(services)
		}
	}

	demuxHandler, err := instance.GetDemuxFactory().Build(handlers)

	if err != nil {
		return nil, fmt.Errorf("error creating server: %v", err)
	}

	demuxHandler.SetParent(server)

	if serverConfig.Identity != nil {
		server.tlsConfig = serverConfig.Identity.ServerTLSConfig()
		server.tlsConfig.MinVersion = uint16(serverConfig.Options.MinTLSVersion)
		server.tlsConfig.MaxVersion = uint16(serverConfig.Options.MaxTLSVersion)
		// make sure to listen to the expected protocols
		server.tlsConfig.NextProtos = append(server.tlsConfig.NextProtos, "h2", "http/1.1")
	}

	for _, bindPoint := range serverConfig.BindPoints {
		namedServer := &namedHttpServer{
			ApiBindingList:  apiBindingList,
			ServerConfig:    serverConfig,
			BindPointConfig: bindPoint,
			InstanceConfig:  instance.GetConfig(),
			Server: &http.Server{
				Addr:         bindPoint.InterfaceAddress,
				WriteTimeout: serverConfig.Options.WriteTimeout,
				ReadTimeout:  serverConfig.Options.ReadTimeout,
				IdleTimeout:  serverConfig.Options.IdleTimeout,
				Handler:      server.wrapHandler(serverConfig, demuxHandler),
				TLSConfig:    server.tlsConfig,
				ErrorLog:     log.New(logWriter, "", 0),
			},
		}

		namedServer.BaseContext = namedServer.NewBaseContext

		server.HttpServers = append(server.HttpServers, namedServer)
	}

	return server, nil
}

func (server *Server) wrapHandler(config *ServerConfig, handler http.Handler) http.Handler {
	//innermost/bottom -> outermost/top
	handler = server.wrapPanicRecovery(handler)
	handler = middleware.NewRequestLogger(config.Name)(handler)
	handler = chimiddleware.RequestID(handler)

	if len(config.Options.CorsOrigins) > 0 {
		handler = middleware.NewCorsHandler(config.Options.CorsOrigins)(handler)
	}

	if config.Options.Compression {
		handler = middleware.NewCompressionHandler(handler)
	}

	return handler
}

// wrapPanicRecovery wraps a http.Handler with another http.Handler that provides recovery.
func (server *Server) wrapPanicRecovery(handler http.Handler) http.Handler {
	wrappedHandler := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		defer func() {
			if panicVal := recover(); panicVal != nil {
				if panicVal == http.ErrAbortHandler {
					panic(panicVal)
				}

				if server.OnHandlerPanic != nil {
					server.OnHandlerPanic(writer, request, panicVal)
					return
				}
				pfxlog.Logger().Errorf("panic caught by server handler: %v\n%v", panicVal, debugz.GenerateLocalStack())
				writer.WriteHeader(http.StatusInternalServerError)
			}
		}()

		handler.ServeHTTP(writer, request)
	})

	return wrappedHandler
}

// Start the server and all underlying http.Server's. Blocks until every http.Server has stopped and returns the first
// error other than http.ErrServerClosed.
func (server *Server) Start() error {
	if server.started.Swap(true) {
		return fmt.Errorf("server %s already started", server.ServerConfig.Name)
	}

	logger := pfxlog.Logger()

	errs := make(chan error, len(server.HttpServers))
	wg := sync.WaitGroup{}

	for _, httpServer := range server.HttpServers {
		listener, err := httpServer.BindPointConfig.Listen(httpServer.ServerConfig.Name, server.tlsConfig)
		if err != nil {
			server.Shutdown(context.Background())
			return fmt.Errorf("error listening on %s: %v", httpServer.Addr, err)
		}

		logger.Infof("starting server %s listening on %s (tls: %v) with APIs: %v", httpServer.ServerConfig.Name, listener.Addr(), server.tlsConfig != nil, httpServer.ApiBindingList)

		localServer := httpServer
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := localServer.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
				errs <- fmt.Errorf("error serving on %s: %v", localServer.Addr, err)
			}
		}()
	}

	wg.Wait()
	close(errs)

	return <-errs
}

// Shutdown stops the server and all underlying http.Server's
func (server *Server) Shutdown(ctx context.Context) {
	for _, httpServer := range server.HttpServers {
		if err := httpServer.Shutdown(ctx); err != nil {
			pfxlog.Logger().WithError(err).Warnf("error shutting down server %s on %s", server.ServerConfig.Name, httpServer.Addr)
		}
	}

	_ = server.logWriter.Close()
}

// Handler returns the fully wrapped http.Handler of the first bind point.
func (server *Server) Handler() http.Handler {
	if len(server.HttpServers) == 0 {
		return nil
	}
	return server.HttpServers[0].Handler
}
