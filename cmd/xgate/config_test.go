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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_defaultConfig(t *testing.T) {
	t.Run("the built-in configuration mounts a, b and c", func(t *testing.T) {
		req := require.New(t)

		cfgmap, err := loadConfig("")
		req.NoError(err)

		instance, err := newInstance(cfgmap)
		req.NoError(err)
		req.NoError(instance.Build())

		servers := instance.Servers()
		req.Len(servers, 1)
		req.Equal([]string{"a", "b", "c"}, servers[0].Services.Ids())
		req.Equal("0.0.0.0:8000", servers[0].HttpServers[0].Addr)
	})

	t.Run("the bind address can be overridden from the environment", func(t *testing.T) {
		req := require.New(t)
		t.Setenv(BindAddressEnv, "127.0.0.1:9090")

		cfgmap, err := loadConfig("")
		req.NoError(err)

		instance, err := newInstance(cfgmap)
		req.NoError(err)
		req.Equal("127.0.0.1:9090", instance.GetConfig().ServerConfigs[0].BindPoints[0].InterfaceAddress)
	})

	t.Run("the sample configuration file is valid", func(t *testing.T) {
		req := require.New(t)

		cfgmap, err := loadConfig(filepath.Join("..", "..", "etc", "xgate.yml"))
		req.NoError(err)

		_, err = newInstance(cfgmap)
		req.NoError(err)
	})

	t.Run("unknown bindings are rejected", func(t *testing.T) {
		req := require.New(t)

		path := filepath.Join(t.TempDir(), "bad.yml")
		req.NoError(os.WriteFile(path, []byte("web:\n  - name: x\n    bindPoints: [{interface: \"127.0.0.1:80\"}]\n    apis: [{binding: nope}]\n"), 0600))

		cfgmap, err := loadConfig(path)
		req.NoError(err)

		_, err = newInstance(cfgmap)
		req.Error(err)
	})
}
