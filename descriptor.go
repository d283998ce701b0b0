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
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// ServiceDescriptor is the static metadata shown for a mounted service. Id doubles as the path segment the service is
// mounted under.
type ServiceDescriptor struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// WithOptions returns a copy of the descriptor with any of the id, name, description, icon and color options applied.
func (d ServiceDescriptor) WithOptions(options map[string]interface{}) (ServiceDescriptor, error) {
	fields := []struct {
		key    string
		target *string
	}{
		{"id", &d.Id},
		{"name", &d.Name},
		{"description", &d.Description},
		{"icon", &d.Icon},
		{"color", &d.Color},
	}

	for _, field := range fields {
		value, err := StringOption(options, field.key, *field.target)
		if err != nil {
			return d, err
		}
		*field.target = value
	}

	return d, d.Validate()
}

// Validate this descriptor.
func (d ServiceDescriptor) Validate() error {
	if d.Id == "" {
		return errors.New("id must not be empty")
	}

	if strings.ContainsAny(d.Id, "/?#") {
		return errors.Errorf("id [%s] must be a single path segment", d.Id)
	}

	if d.Name == "" {
		return errors.Errorf("name for id [%s] must not be empty", d.Id)
	}

	return nil
}

// ServiceRegistry is the ordered, read-only table of ServiceDescriptor's for the services a Server mounts. It is
// populated once on creation and never changes afterwards.
type ServiceRegistry struct {
	descriptors []ServiceDescriptor
	index       map[string]int
}

// NewServiceRegistry creates a ServiceRegistry. Listing order is the order of the supplied descriptors. Errors if a
// descriptor is invalid or an id is used twice.
func NewServiceRegistry(descriptors ...ServiceDescriptor) (*ServiceRegistry, error) {
	registry := &ServiceRegistry{
		index: map[string]int{},
	}

	for i, descriptor := range descriptors {
		if err := descriptor.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid service descriptor at index [%d]", i)
		}

		if existing, ok := registry.index[descriptor.Id]; ok {
			return nil, errors.Errorf("service id [%s] at index [%d] already registered at index [%d]", descriptor.Id, i, existing)
		}

		registry.index[descriptor.Id] = len(registry.descriptors)
		registry.descriptors = append(registry.descriptors, descriptor)
	}

	return registry, nil
}

// List returns a copy of all descriptors in registration order.
func (registry *ServiceRegistry) List() []ServiceDescriptor {
	if registry == nil {
		return nil
	}

	result := make([]ServiceDescriptor, len(registry.descriptors))
	copy(result, registry.descriptors)
	return result
}

// Get returns the descriptor registered for id.
func (registry *ServiceRegistry) Get(id string) (ServiceDescriptor, bool) {
	if registry == nil {
		return ServiceDescriptor{}, false
	}

	if i, ok := registry.index[id]; ok {
		return registry.descriptors[i], true
	}

	return ServiceDescriptor{}, false
}

// Ids returns the registered ids in registration order.
func (registry *ServiceRegistry) Ids() []string {
	ids := []string{}

	if registry == nil {
		return ids
	}

	for _, descriptor := range registry.descriptors {
		ids = append(ids, descriptor.Id)
	}

	return ids
}

// Len returns the number of registered services.
func (registry *ServiceRegistry) Len() int {
	if registry == nil {
		return 0
	}
	return len(registry.descriptors)
}

// MarshalJSON renders the registry as a JSON object keyed by id. Keys keep registration order.
func (registry *ServiceRegistry) MarshalJSON() ([]byte, error) {
	type entry struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
	}

	buf := &bytes.Buffer{}
	buf.WriteByte('{')

	for i, descriptor := range registry.List() {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(descriptor.Id)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(entry{
			Name:        descriptor.Name,
			Description: descriptor.Description,
			Icon:        descriptor.Icon,
			Color:       descriptor.Color,
		})
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
