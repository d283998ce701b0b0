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

package main

import (
	"os"

	"github.com/openziti/xgate"
	"github.com/openziti/xgate/services/calculator"
	"github.com/openziti/xgate/services/textanalyzer"
	"github.com/openziti/xgate/services/todo"
)

// BindAddressEnv overrides the interface address of every bind point.
const BindAddressEnv = "XGATE_BIND_ADDRESS"

const defaultConfig = `
web:
  - name: gateway
    bindPoints:
      - interface: 0.0.0.0:8000
        address: localhost:8000
    apis:
      - binding: gateway
      - binding: calculator
        options:
          id: a
      - binding: todo
        options:
          id: b
      - binding: text-analyzer
        options:
          id: c
`

// loadConfig reads the configuration file at path, or the built-in configuration when path is empty.
func loadConfig(path string) (map[string]interface{}, error) {
	if path == "" {
		return xgate.ParseConfig([]byte(defaultConfig), ".yml")
	}
	return xgate.LoadConfigFile(path)
}

// newRegistry registers every ApiHandlerFactory this binary knows.
func newRegistry() (*xgate.RegistryMap, error) {
	registry := xgate.NewRegistryMap()

	factories := []xgate.ApiHandlerFactory{
		xgate.GatewayApiFactory{},
		calculator.Factory{},
		todo.Factory{},
		textanalyzer.Factory{},
	}

	for _, factory := range factories {
		if err := registry.Add(factory); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// newInstance loads and validates cfgmap into an Instance.
func newInstance(cfgmap map[string]interface{}) (*xgate.InstanceImpl, error) {
	registry, err := newRegistry()
	if err != nil {
		return nil, err
	}

	instance := xgate.NewDefaultInstance(registry)
	instance.Config.BindAddressOverride = os.Getenv(BindAddressEnv)

	if err := instance.LoadConfig(cfgmap); err != nil {
		return nil, err
	}

	return instance, nil
}
