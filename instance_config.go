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
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/openziti/identity"
)

const (
	MinTLSVersion = tls.VersionTLS12
	MaxTLSVersion = tls.VersionTLS13

	DefaultHttpWriteTimeout = time.Second * 10
	DefaultHttpReadTimeout  = time.Second * 5
	DefaultHttpIdleTimeout  = time.Second * 5
)

// TlsVersionMap is a map of configuration strings to TLS version identifiers
var TlsVersionMap = map[string]int{
	"TLS1.0": tls.VersionTLS10,
	"TLS1.1": tls.VersionTLS11,
	"TLS1.2": tls.VersionTLS12,
	"TLS1.3": tls.VersionTLS13,
}

// ReverseTlsVersionMap is a map of TLS version identifiers to configuration strings
var ReverseTlsVersionMap = map[int]string{
	tls.VersionTLS10: "TLS1.0",
	tls.VersionTLS11: "TLS1.1",
	tls.VersionTLS12: "TLS1.2",
	tls.VersionTLS13: "TLS1.3",
}

// InstanceConfig is the root configuration options necessary to start numerous http.Server instances
type InstanceConfig struct {
	SourceConfig map[string]interface{}

	ServerConfigs []*ServerConfig
	Section       string

	// BindAddressOverride, when set, replaces the interface address of every bind point.
	BindAddressOverride string

	enabled bool
}

// Parse parses a configuration map, looking for a section that defines an array of ServerConfig's.
func (config *InstanceConfig) Parse(configMap map[string]interface{}) error {
	config.SourceConfig = configMap

	if config.Section == "" {
		return errors.New("web section not specified for configuration")
	}

	sectionVal, ok := configMap[config.Section]
	if !ok {
		return fmt.Errorf("section [%s] must be defined", config.Section)
	}

	//treat section like an array of maps
	sectionArrayVals, ok := sectionVal.([]interface{})
	if !ok {
		return fmt.Errorf("section [%s] must be an array", config.Section)
	}

	for i, sectionArrayVal := range sectionArrayVals {
		if sectionMap, ok := sectionArrayVal.(map[string]interface{}); ok {
			serverConfig := &ServerConfig{}
			if err := serverConfig.Parse(sectionMap, fmt.Sprintf("%s[%d]", config.Section, i)); err != nil {
				return fmt.Errorf("error parsing web configuration [%s] at index [%d]: %v", config.Section, i, err)
			}

			if config.BindAddressOverride != "" {
				serverConfig.overrideBindAddress(config.BindAddressOverride)
			}

			config.ServerConfigs = append(config.ServerConfigs, serverConfig)
		} else {
			return fmt.Errorf("error parsing web configuration [%s] at index [%d]: not a map", config.Section, i)
		}
	}

	return nil
}

// Validate uses a Registry to validate that all ApiConfig bindings may be fulfilled. All other relevant
// InstanceConfig values are also validated.
func (config *InstanceConfig) Validate(registry Registry) error {
	if len(config.ServerConfigs) == 0 {
		return fmt.Errorf("section [%s] must define at least one server", config.Section)
	}

	presentApis := map[string]ApiHandlerFactory{}
	names := map[string]struct{}{}

	var errs []error
	for i, serverConfig := range config.ServerConfigs {
		//validate attributes
		if err := serverConfig.Validate(registry); err != nil {
			return fmt.Errorf("could not validate server at %s[%d]: %v", config.Section, i, err)
		}

		if _, ok := names[serverConfig.Name]; ok {
			return fmt.Errorf("duplicate server name [%s] at %s[%d]", serverConfig.Name, config.Section, i)
		}
		names[serverConfig.Name] = struct{}{}

		for _, api := range serverConfig.APIs {
			presentApis[api.Binding()] = registry.Get(api.Binding())
		}

		if serverConfig.Identity != nil {
			for _, bp := range serverConfig.BindPoints {
				if ve := serverConfig.Identity.ValidFor(bp.Host()); ve != nil {
					errs = append(errs, ve)
				}
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for presentApiBinding, presentApiFactory := range presentApis {
		if err := presentApiFactory.Validate(config); err != nil {
			return fmt.Errorf("error validating ApiConfig binding %s: %v", presentApiBinding, err)
		}
	}

	//enabled only after validation passes
	config.enabled = true

	return nil
}

// Enabled returns true/false on whether this configuration should be considered "enabled". Set to true after
// Validate passes.
func (config *InstanceConfig) Enabled() bool {
	return config.enabled
}

// Options is the shared options for a ServerConfig.
type Options struct {
	TimeoutOptions
	TlsVersionOptions
}

// Default provides defaults for all necessary values
func (options *Options) Default() {
	options.TimeoutOptions.Default()
	options.TlsVersionOptions.Default()
}

// Parse parses a configuration map
func (options *Options) Parse(optionsMap map[string]interface{}) error {
	if err := options.TimeoutOptions.Parse(optionsMap); err != nil {
		return fmt.Errorf("error parsing options: %v", err)
	}

	if err := options.TlsVersionOptions.Parse(optionsMap); err != nil {
		return fmt.Errorf("error parsing options: %v", err)
	}

	return nil
}

// TimeoutOptions represents http timeout options
type TimeoutOptions struct {
	ReadTimeout  time.Duration
	IdleTimeout  time.Duration
	WriteTimeout time.Duration
}

// Default defaults all HTTP timeout options
func (timeoutOptions *TimeoutOptions) Default() {
	timeoutOptions.WriteTimeout = DefaultHttpWriteTimeout
	timeoutOptions.ReadTimeout = DefaultHttpReadTimeout
	timeoutOptions.IdleTimeout = DefaultHttpIdleTimeout
}

// Parse parses a config map
func (timeoutOptions *TimeoutOptions) Parse(config map[string]interface{}) error {
	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"readTimeout", &timeoutOptions.ReadTimeout},
		{"idleTimeout", &timeoutOptions.IdleTimeout},
		{"writeTimeout", &timeoutOptions.WriteTimeout},
	}

	for _, d := range durations {
		if interfaceVal, ok := config[d.key]; ok {
			if str, ok := interfaceVal.(string); ok {
				if duration, err := time.ParseDuration(str); err == nil {
					*d.target = duration
				} else {
					return fmt.Errorf("could not parse %s %s as a duration (e.g. 1m): %v", d.key, str, err)
				}
			} else {
				return fmt.Errorf("could not use value for %s, not a string", d.key)
			}
		}
	}

	return nil
}

// Validate validates all settings and return nil or an error
func (timeoutOptions *TimeoutOptions) Validate() error {
	if timeoutOptions.WriteTimeout <= 0 {
		return fmt.Errorf("value [%s] for writeTimeout too low, must be positive", timeoutOptions.WriteTimeout.String())
	}

	if timeoutOptions.ReadTimeout <= 0 {
		return fmt.Errorf("value [%s] for readTimeout too low, must be positive", timeoutOptions.ReadTimeout.String())
	}

	if timeoutOptions.IdleTimeout <= 0 {
		return fmt.Errorf("value [%s] for idleTimeout too low, must be positive", timeoutOptions.IdleTimeout.String())
	}

	return nil
}

// TlsVersionOptions represents TLS version options
type TlsVersionOptions struct {
	MinTLSVersion    int
	minTLSVersionStr string

	MaxTLSVersion    int
	maxTLSVersionStr string
}

// Default defaults TLS versions
func (tlsVersionOptions *TlsVersionOptions) Default() {
	tlsVersionOptions.MinTLSVersion = MinTLSVersion
	tlsVersionOptions.minTLSVersionStr = ReverseTlsVersionMap[MinTLSVersion]
	tlsVersionOptions.MaxTLSVersion = MaxTLSVersion
	tlsVersionOptions.maxTLSVersionStr = ReverseTlsVersionMap[MaxTLSVersion]
}

// Parse parses a config map
func (tlsVersionOptions *TlsVersionOptions) Parse(config map[string]interface{}) error {
	if interfaceVal, ok := config["minTLSVersion"]; ok {
		var ok bool
		if tlsVersionOptions.minTLSVersionStr, ok = interfaceVal.(string); ok {
			if minTLSVersion, ok := TlsVersionMap[tlsVersionOptions.minTLSVersionStr]; ok {
				tlsVersionOptions.MinTLSVersion = minTLSVersion
			} else {
				return fmt.Errorf("could not use value for minTLSVersion, invalid value [%s]", tlsVersionOptions.minTLSVersionStr)
			}
		} else {
			return errors.New("could not use value for minTLSVersion, not an string")
		}
	}

	if interfaceVal, ok := config["maxTLSVersion"]; ok {
		var ok bool
		if tlsVersionOptions.maxTLSVersionStr, ok = interfaceVal.(string); ok {
			if maxTLSVersion, ok := TlsVersionMap[tlsVersionOptions.maxTLSVersionStr]; ok {
				tlsVersionOptions.MaxTLSVersion = maxTLSVersion
			} else {
				return fmt.Errorf("could not use value for maxTLSVersion, invalid value [%s]", tlsVersionOptions.maxTLSVersionStr)
			}
		} else {
			return errors.New("could not use value for maxTLSVersion, not an string")
		}
	}

	return nil
}

// Validate validates the configuration values and returns nil or error
func (tlsVersionOptions *TlsVersionOptions) Validate() error {
	if tlsVersionOptions.MinTLSVersion > tlsVersionOptions.MaxTLSVersion {
		return fmt.Errorf("minTLSVersion [%s] must be less than or equal to maxTLSVersion [%s]", tlsVersionOptions.minTLSVersionStr, tlsVersionOptions.maxTLSVersionStr)
	}

	return nil
}

func parseIdentityConfig(identityMap map[string]interface{}, pathContext string) (*identity.Config, error) {
	idConfig, err := identity.NewConfigFromMap(toInterfaceKeyedMap(identityMap))
	if err != nil {
		return nil, fmt.Errorf("error parsing identity: %v", err)
	}

	if err = idConfig.ValidateWithPathContext(pathContext); err != nil {
		return nil, fmt.Errorf("error parsing identity: %v", err)
	}

	return idConfig, nil
}
