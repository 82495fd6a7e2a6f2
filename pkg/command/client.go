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
	"fmt"
	"net/http"
	"strings"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-pim/pkg/command/ifc"
	"jinr.ru/greenlab/go-pim/pkg/config"
	"jinr.ru/greenlab/go-pim/pkg/eeprom"
	"jinr.ru/greenlab/go-pim/pkg/pim"
	"jinr.ru/greenlab/go-pim/pkg/srv"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

var _ ifc.ApiClient = &ApiClient{}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s/api", cfg.ApiAddress()),
	}
}

func (c *ApiClient) portUrl(port int, what string) string {
	return fmt.Sprintf("%s/port/%d/%s", c.ApiPrefix, port, what)
}

func (c *ApiClient) moduleUrl(module int, what string) string {
	return fmt.Sprintf("%s/module/%d/%s", c.ApiPrefix, module, what)
}

func check(r *req.Resp) error {
	if r.Response().StatusCode != http.StatusOK {
		return ErrApi{
			Status:  r.Response().Status,
			Message: strings.TrimSpace(r.String()),
		}
	}
	return nil
}

func (c *ApiClient) get(url string, v interface{}, params ...interface{}) error {
	r, err := req.Get(url, params...)
	if err != nil {
		return err
	}
	if err := check(r); err != nil {
		return err
	}
	return r.ToJSON(v)
}

func (c *ApiClient) post(url string, body interface{}) error {
	var r *req.Resp
	var err error
	if body == nil {
		r, err = req.Post(url)
	} else {
		r, err = req.Post(url, req.BodyJSON(body))
	}
	if err != nil {
		return err
	}
	return check(r)
}

// PortPresence sends request to check if a transceiver is plugged into the port
func (c *ApiClient) PortPresence(port int) (bool, error) {
	resp := &srv.PresenceResp{}
	if err := c.get(c.portUrl(port, "presence"), resp); err != nil {
		return false, err
	}
	return resp.Present, nil
}

func (c *ApiClient) LowPowerMode(port int) (bool, error) {
	resp := &srv.LpMode{}
	if err := c.get(c.portUrl(port, "lpmode"), resp); err != nil {
		return false, err
	}
	return resp.LpMode, nil
}

func (c *ApiClient) SetLowPowerMode(port int, enabled bool) error {
	return c.post(c.portUrl(port, "lpmode"), &srv.LpMode{LpMode: enabled})
}

// Reset sends request to assert the reset line of the port
func (c *ApiClient) Reset(port int) error {
	return c.post(c.portUrl(port, "reset"), nil)
}

func (c *ApiClient) EEPROM(port int) (*eeprom.Info, error) {
	info := &eeprom.Info{}
	if err := c.get(c.portUrl(port, "eeprom"), info); err != nil {
		return nil, err
	}
	return info, nil
}

// PortEvents blocks until the server reports transceiver changes or the timeout expires
func (c *ApiClient) PortEvents(timeoutMs int) (*srv.EventResp, error) {
	resp := &srv.EventResp{}
	if err := c.get(fmt.Sprintf("%s/port/events", c.ApiPrefix), resp, req.Param{"timeout": timeoutMs}); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *ApiClient) ModulePresence(module int) (bool, error) {
	resp := &srv.PresenceResp{}
	if err := c.get(c.moduleUrl(module, "presence"), resp); err != nil {
		return false, err
	}
	return resp.Present, nil
}

func (c *ApiClient) ModuleStatus(module int) (uint32, error) {
	resp := &srv.StatusResp{}
	if err := c.get(c.moduleUrl(module, "status"), resp); err != nil {
		return 0, err
	}
	return resp.Status, nil
}

func (c *ApiClient) ModuleBoard(module int) (string, error) {
	resp := &struct {
		Board string `json:"board"`
	}{}
	if err := c.get(c.moduleUrl(module, "board"), resp); err != nil {
		return "", err
	}
	return resp.Board, nil
}

func (c *ApiClient) ModuleQsfp(module int) (*pim.QsfpStatus, error) {
	status := &pim.QsfpStatus{}
	if err := c.get(c.moduleUrl(module, "qsfp"), status); err != nil {
		return nil, err
	}
	return status, nil
}

func (c *ApiClient) ModuleMdio(module int) (string, error) {
	resp := &srv.Mdio{}
	if err := c.get(c.moduleUrl(module, "mdio"), resp); err != nil {
		return "", err
	}
	return resp.Path, nil
}

func (c *ApiClient) SetModuleMdio(module int, path string) error {
	return c.post(c.moduleUrl(module, "mdio"), &srv.Mdio{Path: path})
}

func (c *ApiClient) ModuleInit(module int) error {
	return c.post(c.moduleUrl(module, "init"), nil)
}

func (c *ApiClient) ModuleEvents(timeoutMs int) (*srv.EventResp, error) {
	resp := &srv.EventResp{}
	if err := c.get(fmt.Sprintf("%s/module/events", c.ApiPrefix), resp, req.Param{"timeout": timeoutMs}); err != nil {
		return nil, err
	}
	return resp, nil
}

// History sends request to get journaled change sets, newest first
func (c *ApiClient) History(kind string, limit int) ([]*srv.Record, error) {
	var records []*srv.Record
	params := req.Param{"kind": kind, "limit": limit}
	if err := c.get(fmt.Sprintf("%s/events/history", c.ApiPrefix), &records, params); err != nil {
		return nil, err
	}
	return records, nil
}

// RegRead sends request to get the value of a register
func (c *ApiClient) RegRead(addr string) (string, error) {
	reg := &srv.RegHex{}
	if err := c.get(fmt.Sprintf("%s/reg/r/%s", c.ApiPrefix, addr), reg); err != nil {
		return "", err
	}
	return reg.Value, nil
}

// RegWrite sends request to write the value to a register
func (c *ApiClient) RegWrite(addr, value string) error {
	reg := &srv.RegHex{
		Addr:  addr,
		Value: value,
	}
	return c.post(fmt.Sprintf("%s/reg/w", c.ApiPrefix), reg)
}
