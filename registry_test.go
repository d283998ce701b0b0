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
	"testing"

	"github.com/stretchr/testify/require"
)

type mockFactory struct {
	binding string
}

func (m mockFactory) Binding() string {
	return m.binding
}

func (m mockFactory) New(*ServerConfig, map[string]interface{}) (ApiHandler, error) {
	return &mockHandler{binding: m.binding, rootPath: "/" + m.binding}, nil
}

func (m mockFactory) Validate(*InstanceConfig) error {
	return nil
}

func Test_RegistryMap(t *testing.T) {
	t.Run("factories are found by binding", func(t *testing.T) {
		req := require.New(t)
		registry := NewRegistryMap()

		req.NoError(registry.Add(mockFactory{binding: "one"}))
		req.NoError(registry.Add(mockFactory{binding: "two"}))

		req.Equal(mockFactory{binding: "two"}, registry.Get("two"))
		req.Nil(registry.Get("three"))
		req.Equal([]string{"one", "two"}, registry.Bindings())
	})

	t.Run("a binding may only be added once", func(t *testing.T) {
		req := require.New(t)
		registry := NewRegistryMap()

		req.NoError(registry.Add(mockFactory{binding: "one"}))
		req.Error(registry.Add(mockFactory{binding: "one"}))
		req.Equal([]string{"one"}, registry.Bindings())
	})
}
