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

package calculator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openziti/xgate"
	"github.com/stretchr/testify/require"
)

func serve(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
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

func Test_Handler(t *testing.T) {
	handler := NewHandler(false)

	t.Run("health reports the agent", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodGet, "/health", "")
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"status":"healthy","agent":"calculator"}`, resp.Body.String())
	})

	t.Run("calculate returns result, operation and expression", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodPost, "/calculate", `{"a":6,"b":3,"operation":"Divide"}`)
		req.Equal(http.StatusOK, resp.Code)
		req.Equal("application/json", resp.Header().Get("Content-Type"))
		req.JSONEq(`{"result":2,"operation":"divide","expression":"6.0 ÷ 3.0"}`, resp.Body.String())
	})

	t.Run("calculate encodes division by zero as Infinity", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodPost, "/calculate", `{"a":1,"b":0,"operation":"divide"}`)
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"result":"Infinity","operation":"divide","expression":"1.0 ÷ 0.0"}`, resp.Body.String())
	})

	t.Run("calculate answers an unknown operation with the invalid operation result", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodPost, "/calculate", `{"a":1,"b":2,"operation":"pow"}`)
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"result":0,"operation":"pow","expression":"Invalid operation"}`, resp.Body.String())
	})

	t.Run("calculate rejects a missing operand", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodPost, "/calculate", `{"a":1,"operation":"add"}`)
		req.Equal(http.StatusUnprocessableEntity, resp.Code)
		req.JSONEq(`{"detail":"field b is required"}`, resp.Body.String())
	})

	t.Run("calculate rejects a malformed body", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodPost, "/calculate", `{"a":`)
		req.Equal(http.StatusUnprocessableEntity, resp.Code)
		req.Contains(resp.Body.String(), "invalid request body")
	})

	t.Run("query operations return result and expression", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodGet, "/api/add?a=1&b=2", "")
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"result":3,"expression":"1.0 + 2.0"}`, resp.Body.String())

		resp = serve(handler, http.MethodGet, "/api/multiply?a=1.5&b=-2", "")
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"result":-3,"expression":"1.5 × -2.0"}`, resp.Body.String())
	})

	t.Run("query divide by zero reports the error without a result", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodGet, "/api/divide?a=1&b=0", "")
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"error":"Division by zero","result":null}`, resp.Body.String())
	})

	t.Run("query operations reject missing and non-numeric parameters", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodGet, "/api/subtract?a=1", "")
		req.Equal(http.StatusUnprocessableEntity, resp.Code)
		req.JSONEq(`{"detail":"query parameter b is required"}`, resp.Body.String())

		resp = serve(handler, http.MethodGet, "/api/subtract?a=x&b=1", "")
		req.Equal(http.StatusUnprocessableEntity, resp.Code)
		req.JSONEq(`{"detail":"query parameter a must be a number"}`, resp.Body.String())
	})

	t.Run("unknown query operations are not found", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodGet, "/api/pow?a=1&b=2", "")
		req.Equal(http.StatusNotFound, resp.Code)
		req.JSONEq(`{"detail":"Not Found"}`, resp.Body.String())
	})

	t.Run("root and docs describe the service", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodGet, "/", "")
		req.Equal(http.StatusOK, resp.Code)
		req.Contains(resp.Body.String(), `"name":"Calculator Agent"`)

		resp = serve(handler, http.MethodGet, "/docs", "")
		req.Equal(http.StatusOK, resp.Code)
		req.Contains(resp.Body.String(), `{"method":"POST","path":"/calculate"}`)
		req.Contains(resp.Body.String(), `{"method":"GET","path":"/api/divide"}`)
	})
}

func Test_StrictHandler(t *testing.T) {
	handler := NewHandler(true)

	t.Run("unknown operations are unprocessable", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodPost, "/calculate", `{"a":1,"b":2,"operation":"pow"}`)
		req.Equal(http.StatusUnprocessableEntity, resp.Code)
		req.Contains(resp.Body.String(), "invalid operation")
	})

	t.Run("query divide by zero is a bad request", func(t *testing.T) {
		req := require.New(t)

		resp := serve(handler, http.MethodGet, "/api/divide?a=1&b=0", "")
		req.Equal(http.StatusBadRequest, resp.Code)
		req.JSONEq(`{"error":"Division by zero","result":null}`, resp.Body.String())
	})
}

func Test_Factory(t *testing.T) {
	t.Run("defaults to the calculator descriptor", func(t *testing.T) {
		req := require.New(t)

		handler, err := Factory{}.New(nil, nil)
		req.NoError(err)
		req.Equal(Binding, handler.Binding())
		req.Equal("/a", handler.RootPath())

		described, ok := handler.(xgate.DescribedApiHandler)
		req.True(ok)
		req.Equal(DefaultDescriptor(), described.Descriptor())
	})

	t.Run("descriptor options override the defaults", func(t *testing.T) {
		req := require.New(t)

		handler, err := Factory{}.New(nil, map[string]interface{}{"id": "calc", "name": "Calc"})
		req.NoError(err)
		req.Equal("/calc", handler.RootPath())
		req.Equal("Calc", handler.(xgate.DescribedApiHandler).Descriptor().Name)
	})

	t.Run("strictOperations must be a boolean", func(t *testing.T) {
		req := require.New(t)

		_, err := Factory{}.New(nil, map[string]interface{}{"strictOperations": "yes"})
		req.Error(err)
	})
}
