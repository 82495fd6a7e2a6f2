/*
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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigDir, ConfigFile)
	cfg := NewConfig(path)
	cfg.Gateway.Kind = "sim"
	cfg.Layout.Ports = 64
	cfg.Publish.RedisAddress = "127.0.0.1:6379"
	require.NoError(t, cfg.Persist(false))

	var exists ErrConfigFileExists
	require.ErrorAs(t, cfg.Persist(false), &exists)
	assert.Equal(t, path, exists.Path)
	require.NoError(t, cfg.Persist(true))

	loaded := NewConfig(path)
	require.NoError(t, loaded.Load())
	assert.Equal(t, "sim", loaded.Gateway.Kind)
	assert.Equal(t, 64, loaded.Layout.Ports)
	assert.Equal(t, DefaultPortsPerModule, loaded.Layout.PortsPerModule)
	assert.Equal(t, "127.0.0.1:6379", loaded.Publish.RedisAddress)
	assert.Equal(t, filepath.Join(filepath.Dir(path), DBFile), loaded.DBPath)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("gateway:\n  kind: sim\n"), 0644))

	cfg := NewConfig(path)
	require.NoError(t, cfg.Load())
	assert.Equal(t, "sim", cfg.Gateway.Kind)
	assert.Equal(t, DefaultGatewayResource, cfg.Gateway.Resource)
	assert.Equal(t, DefaultApiPort, cfg.Api.Port)
}

func TestLoadNullSectionsGetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	data := "gateway: null\nlayout: null\napi: null\npoll: null\npublish: null\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	t.Setenv(EnvPrefix+"GATEWAY_KIND", "sim")

	cfg := NewConfig(path)
	require.NotPanics(t, func() {
		require.NoError(t, cfg.Load())
	})
	defaults := NewConfig(path)
	assert.Equal(t, "sim", cfg.Gateway.Kind)
	assert.Equal(t, defaults.Gateway.Resource, cfg.Gateway.Resource)
	assert.Equal(t, defaults.Layout, cfg.Layout)
	assert.Equal(t, defaults.Api, cfg.Api)
	assert.Equal(t, defaults.Poll, cfg.Poll)
	assert.Equal(t, defaults.Publish, cfg.Publish)

	l, err := cfg.PortLayout()
	require.NoError(t, err)
	assert.Equal(t, DefaultPorts, l.Ports())
}

func TestLoadMissingFile(t *testing.T) {
	cfg := NewConfig(filepath.Join(t.TempDir(), "absent", ConfigFile))
	require.NoError(t, cfg.Load())
	assert.Equal(t, DefaultPorts, cfg.Layout.Ports)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"API_PORT", "0x1f90")
	t.Setenv(EnvPrefix+"GATEWAY_KIND", "sim")
	cfg := NewConfig(filepath.Join(t.TempDir(), ConfigFile))
	require.NoError(t, cfg.Load())
	assert.Equal(t, 8080, cfg.Api.Port)
	assert.Equal(t, "sim", cfg.Gateway.Kind)
	assert.Equal(t, "127.0.0.1:8080", cfg.ApiAddress())
}

func TestEnvBadNumber(t *testing.T) {
	t.Setenv(EnvPrefix+"PORTS", "many")
	cfg := NewConfig(filepath.Join(t.TempDir(), ConfigFile))
	var bad ErrBadEnv
	require.ErrorAs(t, cfg.Load(), &bad)
	assert.Equal(t, EnvPrefix+"PORTS", bad.Name)
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	name := EnvPrefix + "PUBLISH_CHANNEL"
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFile), []byte(name+"=pim-test\n"), 0644))
	t.Cleanup(func() { os.Unsetenv(name) })

	cfg := NewConfig(filepath.Join(dir, ConfigFile))
	require.NoError(t, cfg.Load())
	assert.Equal(t, "pim-test", cfg.Publish.Channel)
}

func TestPortLayout(t *testing.T) {
	cfg := NewConfig(filepath.Join(t.TempDir(), ConfigFile))
	l, err := cfg.PortLayout()
	require.NoError(t, err)
	assert.Equal(t, 8, l.Modules())

	cfg.Layout.PortsPerModule = 32
	_, err = cfg.PortLayout()
	assert.Error(t, err)
}

func TestGranularity(t *testing.T) {
	cfg := NewConfig(filepath.Join(t.TempDir(), ConfigFile))
	assert.Equal(t, time.Second, cfg.Granularity())
	cfg.Poll.GranularityMs = 250
	assert.Equal(t, 250*time.Millisecond, cfg.Granularity())
	cfg.Poll.GranularityMs = 0
	assert.Equal(t, time.Second, cfg.Granularity())
}
