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
	"github.com/openziti/xgate"
)

const Binding = "calculator"

// DefaultDescriptor is the listing entry of the calculator when no descriptor options are configured.
func DefaultDescriptor() xgate.ServiceDescriptor {
	return xgate.ServiceDescriptor{
		Id:          "a",
		Name:        "Calculator",
		Description: "Perform basic arithmetic operations",
		Icon:        "#",
		Color:       "#667eea",
	}
}

// Factory builds calculator ApiHandler's. Supported options: the descriptor options and strictOperations.
type Factory struct{}

var _ xgate.ApiHandlerFactory = Factory{}

func (factory Factory) Binding() string {
	return Binding
}

func (factory Factory) New(_ *xgate.ServerConfig, options map[string]interface{}) (xgate.ApiHandler, error) {
	descriptor, err := DefaultDescriptor().WithOptions(options)
	if err != nil {
		return nil, err
	}

	strict, err := xgate.BoolOption(options, "strictOperations", false)
	if err != nil {
		return nil, err
	}

	return xgate.NewServiceApiHandler(Binding, descriptor, options, NewHandler(strict)), nil
}

func (factory Factory) Validate(*xgate.InstanceConfig) error {
	return nil
}
