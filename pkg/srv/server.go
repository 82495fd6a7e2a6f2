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

// Package srv implements the go-pim daemon: the REST API over the PIM
// device, the event journal and the optional redis event publisher.
package srv

import (
	"context"
	"sync"

	"jinr.ru/greenlab/go-pim/pkg/config"
	"jinr.ru/greenlab/go-pim/pkg/eeprom"
	"jinr.ru/greenlab/go-pim/pkg/event"
	"jinr.ru/greenlab/go-pim/pkg/gateway"
	gwifc "jinr.ru/greenlab/go-pim/pkg/gateway/ifc"
	"jinr.ru/greenlab/go-pim/pkg/log"
	"jinr.ru/greenlab/go-pim/pkg/pim"
	"jinr.ru/greenlab/go-pim/pkg/sfp"
	"jinr.ru/greenlab/go-pim/pkg/srv/ifc"
)

type Server struct {
	context.Context
	*config.Config
	sfp       *sfp.Sfp
	eeprom    *eeprom.Reader
	journal   *Journal
	publisher ifc.Publisher
	api       ifc.ApiServer
	closeOnce sync.Once
}

// NewServer opens the gateway configured in cfg and builds the server on top of it
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	gw, err := gateway.Open(cfg.Gateway)
	if err != nil {
		return nil, err
	}
	s, err := NewServerWithGateway(ctx, cfg, gw)
	if err != nil {
		gw.Close()
		return nil, err
	}
	return s, nil
}

func NewServerWithGateway(ctx context.Context, cfg *config.Config, gw gwifc.Gateway) (*Server, error) {
	l, err := cfg.PortLayout()
	if err != nil {
		return nil, err
	}
	journal, err := NewJournal(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	dev := pim.NewDevice(gw, l)
	s := &Server{
		Context: ctx,
		Config:  cfg,
		sfp:     sfp.New(dev, event.WithGranularity(cfg.Granularity())),
		eeprom:  eeprom.NewReader(l),
		journal: journal,
	}
	if cfg.Publish.RedisAddress != "" {
		s.publisher = NewRedisPublisher(cfg.Publish.RedisAddress, cfg.Publish.Channel)
	}
	s.api = NewApiServer(ctx, cfg, s)
	return s, nil
}

func (s *Server) Device() *pim.Device {
	return s.sfp.Device()
}

func (s *Server) Journal() *Journal {
	return s.journal
}

func (s *Server) ApiServer() ifc.ApiServer {
	return s.api
}

// Run serves the REST API until the context is cancelled or the listener fails
func (s *Server) Run() error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.api.Run()
	}()

	select {
	case <-s.Context.Done():
		return s.Context.Err()
	case err := <-errChan:
		return err
	}
}

// Close releases the gateway, the journal and the publisher. Safe to call twice.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		log.Info("Releasing PIM device")
		if err := s.sfp.Device().Close(); err != nil {
			log.Error("Error while releasing gateway: %s", err)
		}
		if err := s.journal.Close(); err != nil {
			log.Error("Error while closing journal: %s", err)
		}
		if s.publisher != nil {
			if err := s.publisher.Close(); err != nil {
				log.Error("Error while closing publisher: %s", err)
			}
		}
	})
}

// PortEvents polls for transceiver insertion/removal and records reported changes
func (s *Server) PortEvents(timeoutMs int) (bool, event.ChangeSet, error) {
	ok, changes, err := s.sfp.TransceiverChangeEvent(timeoutMs)
	if err != nil {
		return false, changes, err
	}
	s.record(KindPort, changes)
	return ok, changes, nil
}

// ModuleEvents polls for PIM insertion/removal and records reported changes
func (s *Server) ModuleEvents(timeoutMs int) (bool, event.ChangeSet, error) {
	ok, changes, err := s.sfp.ModuleChangeEvent(timeoutMs)
	if err != nil {
		return false, changes, err
	}
	s.record(KindModule, changes)
	return ok, changes, nil
}

func (s *Server) record(kind string, changes event.ChangeSet) {
	if len(changes) == 0 {
		return
	}
	rec, err := s.journal.Append(kind, changes)
	if err != nil {
		log.Error("Error while journaling %s event: %s", kind, err)
		return
	}
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.Publish(rec); err != nil {
		log.Warning("Error while publishing %s event %s: %s", kind, rec.ID, err)
	}
}
