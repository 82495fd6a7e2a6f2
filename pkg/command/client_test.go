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

package command

import (
	"context"
	"net"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-pim/pkg/config"
	"jinr.ru/greenlab/go-pim/pkg/event"
	"jinr.ru/greenlab/go-pim/pkg/fpga"
	"jinr.ru/greenlab/go-pim/pkg/gateway"
	"jinr.ru/greenlab/go-pim/pkg/srv"
)

func newTestClient(t *testing.T) (*ApiClient, *gateway.Sim) {
	t.Helper()
	cfg := config.NewConfig(filepath.Join(t.TempDir(), config.ConfigFile))
	cfg.Gateway.Kind = gateway.KindSim
	cfg.Poll.GranularityMs = 10
	sim := gateway.NewBoardSim(8)
	s, err := srv.NewServerWithGateway(context.Background(), cfg, sim)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	ts := httptest.NewServer(s.ApiServer().Handler())
	t.Cleanup(ts.Close)
	addr := ts.Listener.Addr().(*net.TCPAddr)
	cfg.Api.IP = addr.IP.String()
	cfg.Api.Port = addr.Port
	return NewApiClient(cfg), sim
}

func TestClientPort(t *testing.T) {
	c, sim := newTestClient(t)
	present, err := fpga.ModuleReg(0, fpga.DomQsfpPresent)
	require.NoError(t, err)
	sim.Set(present, 1<<2)

	ok, err := c.PortPresence(2)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.SetLowPowerMode(2, true))
	lpmode, err := c.LowPowerMode(2)
	require.NoError(t, err)
	assert.True(t, lpmode)

	reset, err := fpga.ModuleReg(0, fpga.DomQsfpReset)
	require.NoError(t, err)
	sim.Set(reset, 0xffff)
	require.NoError(t, c.Reset(2))
	assert.Equal(t, uint32(0xfffb), sim.Get(reset))

	_, err = c.PortPresence(128)
	var apiErr ErrApi
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Status, "404")
	assert.Contains(t, apiErr.Message, "128")
}

func TestClientModule(t *testing.T) {
	c, _ := newTestClient(t)

	ok, err := c.ModulePresence(5)
	require.NoError(t, err)
	assert.True(t, ok)

	board, err := c.ModuleBoard(5)
	require.NoError(t, err)
	assert.Equal(t, "400G", board)

	status, err := c.ModuleStatus(5)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), status)

	require.NoError(t, c.SetModuleMdio(5, "fpga"))
	path, err := c.ModuleMdio(5)
	require.NoError(t, err)
	assert.Equal(t, "fpga", path)

	require.NoError(t, c.ModuleInit(5))
	path, err = c.ModuleMdio(5)
	require.NoError(t, err)
	assert.Equal(t, "mac", path)

	qsfp, err := c.ModuleQsfp(5)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), qsfp.Present)
}

func TestClientEventsAndHistory(t *testing.T) {
	c, sim := newTestClient(t)
	present, err := fpga.ModuleReg(7, fpga.DomQsfpPresent)
	require.NoError(t, err)
	intr, err := fpga.ModuleReg(7, fpga.DomQsfpPresentIntr)
	require.NoError(t, err)
	sim.Set(present, 1<<15)
	sim.Set(intr, 1<<15)

	resp, err := c.PortEvents(200)
	require.NoError(t, err)
	assert.True(t, resp.Reported)
	assert.Equal(t, event.ChangeSet{127: event.Inserted}, resp.Changes)

	records, err := c.History(srv.KindPort, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, event.ChangeSet{127: event.Inserted}, records[0].Changes)

	resp, err = c.ModuleEvents(20)
	require.NoError(t, err)
	assert.True(t, resp.Reported)
	assert.Empty(t, resp.Changes)
}

func TestClientReg(t *testing.T) {
	c, sim := newTestClient(t)

	require.NoError(t, c.RegWrite("0x4", "0x1234"))
	assert.Equal(t, uint32(0x1234), sim.Get(fpga.IobReg(fpga.IobScratchpad)))

	value, err := c.RegRead("0x4")
	require.NoError(t, err)
	assert.Equal(t, "0x00001234", value)
}
