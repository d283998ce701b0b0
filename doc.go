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

/*
Package xgate mounts independent http.Handler services behind a single front door and serves a listing of them.

Basics

An Instance parses a configuration section (default `web`) into ServerConfig's. Each ServerConfig names the bind
points to listen on and the APIs to host. Every API names a binding that is looked up in a Registry of
ApiHandlerFactory's, which build the ApiHandler's of the Server.

Requests are routed by a DemuxHandler built by a DemuxFactory. The SegmentDemuxFactory matches the first path segment
of a request exactly against the root path of each ApiHandler ("/a/health" goes to the handler rooted at "/a") and
forwards the request with that segment removed. Method, headers, body and query reach the handler unmodified and its
response is written straight to the client. Requests no handler claims go to the default ApiHandler, normally the
GatewayApiHandler, which answers them with a 404.

Service registry

ApiHandler's that implement DescribedApiHandler contribute a ServiceDescriptor to the ServiceRegistry of their Server.
The registry is built once, in configuration order, when the Server is created and never changes afterwards. It is
handed to every ApiHandler implementing ServiceRegistryAware. The GatewayApiHandler uses it for the landing page,
/health and /api/agents. Dispatch never consults it.

Servers

Each Server wraps its demux in panic recovery, request logging, request ids, optional CORS and brotli/gzip response
compression. A ServerConfig with an identity section listens with TLS.
*/
package xgate
