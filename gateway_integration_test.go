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

package xgate_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openziti/xgate"
	"github.com/openziti/xgate/services/calculator"
	"github.com/openziti/xgate/services/textanalyzer"
	"github.com/openziti/xgate/services/todo"
	"github.com/stretchr/testify/require"
)

const gatewayConfig = `
web:
  - name: gateway
    bindPoints:
      - interface: 127.0.0.1:8000
    apis:
      - binding: gateway
      - binding: calculator
      - binding: todo
      - binding: text-analyzer
`

func newGateway(t *testing.T) http.Handler {
	req := require.New(t)

	registry := xgate.NewRegistryMap()
	req.NoError(registry.Add(xgate.GatewayApiFactory{}))
	req.NoError(registry.Add(calculator.Factory{}))
	req.NoError(registry.Add(todo.Factory{}))
	req.NoError(registry.Add(textanalyzer.Factory{}))

	cfgmap, err := xgate.ParseConfig([]byte(gatewayConfig), ".yml")
	req.NoError(err)

	instance := xgate.NewDefaultInstance(registry)
	req.NoError(instance.LoadConfig(cfgmap))

	server, err := xgate.NewServer(instance, instance.GetConfig().ServerConfigs[0])
	req.NoError(err)

	return server.Handler()
}

func do(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, target, nil)
	} else {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func Test_GatewayRouting(t *testing.T) {
	gateway := newGateway(t)

	t.Run("a service health request is answered by the service unchanged", func(t *testing.T) {
		req := require.New(t)

		viaGateway := do(gateway, http.MethodGet, "/a/health", "")
		direct := do(calculator.NewHandler(false), http.MethodGet, "/health", "")

		req.Equal(direct.Code, viaGateway.Code)
		req.Equal(direct.Body.String(), viaGateway.Body.String())
		req.Equal(direct.Header().Get("Content-Type"), viaGateway.Header().Get("Content-Type"))
	})

	t.Run("an unregistered prefix is not found", func(t *testing.T) {
		req := require.New(t)

		for _, target := range []string{"/z/anything", "/z", "/A/health", "/ab/health"} {
			resp := do(gateway, http.MethodGet, target, "")
			req.Equal(http.StatusNotFound, resp.Code, target)
			req.JSONEq(`{"detail":"Not Found"}`, resp.Body.String())
		}
	})

	t.Run("the gateway health lists the services", func(t *testing.T) {
		req := require.New(t)

		resp := do(gateway, http.MethodGet, "/health", "")
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"status":"healthy","gateway":"multi-agent-gateway","agents":["a","b","c"],"agent_count":3}`, resp.Body.String())
	})

	t.Run("the agent listing keeps registration order", func(t *testing.T) {
		req := require.New(t)

		resp := do(gateway, http.MethodGet, "/api/agents", "")
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"agents":{
			"a":{"name":"Calculator","description":"Perform basic arithmetic operations","icon":"#","color":"#667eea"},
			"b":{"name":"Todo List","description":"Manage your tasks and todos","icon":"T","color":"#11998e"},
			"c":{"name":"Text Analyzer","description":"Analyze text for statistics and sentiment","icon":"A","color":"#ee0979"}
		}}`, resp.Body.String())

		body := resp.Body.String()
		req.Less(strings.Index(body, `"a":`), strings.Index(body, `"b":`))
		req.Less(strings.Index(body, `"b":`), strings.Index(body, `"c":`))
	})

	t.Run("the landing page links every service", func(t *testing.T) {
		req := require.New(t)

		resp := do(gateway, http.MethodGet, "/", "")
		req.Equal(http.StatusOK, resp.Code)

		for _, id := range []string{"a", "b", "c"} {
			req.Contains(resp.Body.String(), `href="/`+id+`/"`)
			req.Contains(resp.Body.String(), `href="/`+id+`/docs"`)
		}
	})

	t.Run("service roots and docs are reachable", func(t *testing.T) {
		req := require.New(t)

		resp := do(gateway, http.MethodGet, "/a", "")
		req.Equal(http.StatusOK, resp.Code)
		req.Contains(resp.Body.String(), "Calculator Agent")

		resp = do(gateway, http.MethodGet, "/b/docs", "")
		req.Equal(http.StatusOK, resp.Code)
		req.Contains(resp.Body.String(), "/api/todos/{id}/toggle")
	})

	t.Run("calculations pass method, body and query through", func(t *testing.T) {
		req := require.New(t)

		resp := do(gateway, http.MethodPost, "/a/calculate", `{"a":2,"b":0,"operation":"divide"}`)
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"result":"Infinity","operation":"divide","expression":"2.0 ÷ 0.0"}`, resp.Body.String())

		resp = do(gateway, http.MethodGet, "/a/api/subtract?a=10&b=4", "")
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"result":6,"expression":"10.0 - 4.0"}`, resp.Body.String())
	})

	t.Run("todos are created and removed through the gateway", func(t *testing.T) {
		req := require.New(t)

		resp := do(gateway, http.MethodPost, "/b/api/todos", `{"title":"route me"}`)
		req.Equal(http.StatusOK, resp.Code)

		created := todo.Todo{}
		req.NoError(json.Unmarshal(resp.Body.Bytes(), &created))

		resp = do(gateway, http.MethodGet, "/b/health", "")
		req.JSONEq(`{"status":"healthy","agent":"todo","total_todos":1}`, resp.Body.String())

		resp = do(gateway, http.MethodDelete, "/b/api/todos/"+created.Id, "")
		req.Equal(http.StatusOK, resp.Code)

		resp = do(gateway, http.MethodGet, "/b/api/todos/"+created.Id, "")
		req.Equal(http.StatusNotFound, resp.Code)
		req.JSONEq(`{"detail":"Todo not found"}`, resp.Body.String())
	})

	t.Run("text is analyzed through the gateway", func(t *testing.T) {
		req := require.New(t)

		resp := do(gateway, http.MethodPost, "/c/api/analyze", `{"text":"I love this! It is great."}`)
		req.Equal(http.StatusOK, resp.Code)

		analysis := textanalyzer.Analysis{}
		req.NoError(json.Unmarshal(resp.Body.Bytes(), &analysis))
		req.Equal(textanalyzer.Positive, analysis.SentimentLabel)
	})
}
