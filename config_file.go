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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadConfigFile reads a YAML (.yml, .yaml) or TOML (.toml) file into a configuration map suitable for
// Instance.LoadConfig.
func LoadConfigFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config file %s", path)
	}

	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig decodes data in the format identified by the file extension ext.
func ParseConfig(data []byte, ext string) (map[string]interface{}, error) {
	cfgmap := map[string]interface{}{}

	switch strings.ToLower(ext) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &cfgmap); err != nil {
			return nil, errors.Wrap(err, "could not parse yaml config")
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfgmap); err != nil {
			return nil, errors.Wrap(err, "could not parse toml config")
		}
	default:
		return nil, errors.Errorf("unsupported config file extension [%s], expected .yml, .yaml or .toml", ext)
	}

	normalized, ok := normalizeConfigValue(cfgmap).(map[string]interface{})
	if !ok {
		return nil, errors.New("config root must be a map")
	}

	return normalized, nil
}

// normalizeConfigValue converts decoder specific collection types to map[string]interface{} and []interface{}.
func normalizeConfigValue(val interface{}) interface{} {
	switch v := val.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, item := range v {
			result[key] = normalizeConfigValue(item)
		}
		return result
	case map[interface{}]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, item := range v {
			result[fmt.Sprint(key)] = normalizeConfigValue(item)
		}
		return result
	case []map[string]interface{}:
		result := make([]interface{}, 0, len(v))
		for _, item := range v {
			result = append(result, normalizeConfigValue(item))
		}
		return result
	case []interface{}:
		result := make([]interface{}, 0, len(v))
		for _, item := range v {
			result = append(result, normalizeConfigValue(item))
		}
		return result
	}

	return val
}

// toInterfaceKeyedMap converts a configuration map to the form expected by openziti identity configuration.
func toInterfaceKeyedMap(m map[string]interface{}) map[interface{}]interface{} {
	result := make(map[interface{}]interface{}, len(m))
	for key, val := range m {
		if nested, ok := val.(map[string]interface{}); ok {
			result[key] = toInterfaceKeyedMap(nested)
		} else {
			result[key] = val
		}
	}
	return result
}
