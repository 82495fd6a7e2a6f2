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

package srv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-pim/pkg/config"
	"jinr.ru/greenlab/go-pim/pkg/eeprom"
	"jinr.ru/greenlab/go-pim/pkg/event"
	"jinr.ru/greenlab/go-pim/pkg/fpga"
	"jinr.ru/greenlab/go-pim/pkg/gateway"
	"jinr.ru/greenlab/go-pim/pkg/layout"
	"jinr.ru/greenlab/go-pim/pkg/log"
	"jinr.ru/greenlab/go-pim/pkg/pim"
	"jinr.ru/greenlab/go-pim/pkg/srv/ifc"
)

const (
	DefaultEventTimeoutMs = 1000
	// EventSliceMs bounds a single poll made for an event request
	EventSliceMs = 250
)

// RegHex ...
type RegHex struct {
	Addr  string // hexadecimal
	Value string // hexadecimal
}

type PresenceResp struct {
	Present bool `json:"present"`
}

type LpMode struct {
	LpMode bool `json:"lpmode"`
}

type StatusResp struct {
	Status uint32 `json:"status"`
}

type BoardResp struct {
	Board pim.BoardKind `json:"board"`
}

type Mdio struct {
	Path string `json:"path"`
}

type EventResp struct {
	Reported bool            `json:"reported"`
	Changes  event.ChangeSet `json:"changes"`
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	srv *Server
}

var _ ifc.ApiServer = &ApiServer{}

func NewApiServer(ctx context.Context, cfg *config.Config, srv *Server) *ApiServer {
	log.Info("Initializing API server with address: %s", cfg.ApiAddress())
	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		srv:     srv,
	}
	s.configureRouter()
	return s
}

func (s *ApiServer) Handler() http.Handler {
	return s.Router
}

// Run
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s", s.Config.ApiAddress())
	httpServer := &http.Server{
		Handler: handlers.LoggingHandler(log.Writer(log.InfoLevel), s.Router),
		Addr:    s.Config.ApiAddress(),
	}
	go func() {
		<-s.Context.Done()
		httpServer.Close()
	}()
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()

	subRouter.HandleFunc("/port/events", s.handlePortEvents()).Methods("GET")
	subRouter.HandleFunc("/port/{port:[0-9]+}/presence", s.handlePortPresence()).Methods("GET")
	subRouter.HandleFunc("/port/{port:[0-9]+}/lpmode", s.handleLpModeGet()).Methods("GET")
	subRouter.HandleFunc("/port/{port:[0-9]+}/lpmode", s.handleLpModeSet()).Methods("POST")
	subRouter.HandleFunc("/port/{port:[0-9]+}/reset", s.handleReset()).Methods("POST")
	subRouter.HandleFunc("/port/{port:[0-9]+}/eeprom", s.handleEEPROM()).Methods("GET")

	subRouter.HandleFunc("/module/events", s.handleModuleEvents()).Methods("GET")
	subRouter.HandleFunc("/module/{module:[0-9]+}/presence", s.handleModulePresence()).Methods("GET")
	subRouter.HandleFunc("/module/{module:[0-9]+}/status", s.handleModuleStatus()).Methods("GET")
	subRouter.HandleFunc("/module/{module:[0-9]+}/board", s.handleModuleBoard()).Methods("GET")
	subRouter.HandleFunc("/module/{module:[0-9]+}/qsfp", s.handleModuleQsfp()).Methods("GET")
	subRouter.HandleFunc("/module/{module:[0-9]+}/mdio", s.handleMdioGet()).Methods("GET")
	subRouter.HandleFunc("/module/{module:[0-9]+}/mdio", s.handleMdioSet()).Methods("POST")
	subRouter.HandleFunc("/module/{module:[0-9]+}/init", s.handleModuleInit()).Methods("POST")

	subRouter.HandleFunc("/events/history", s.handleHistory()).Methods("GET")

	// addr and value must be hexadecimal integers
	subRouter.HandleFunc("/reg/r/{addr:0x[0-9a-fA-F]+}", s.handleRegRead()).Methods("GET")
	subRouter.HandleFunc("/reg/w", s.handleRegWrite()).Methods("POST")
}

// httpError maps range errors to 404, bad input to 400 and transport
// failures to 502
func httpError(w http.ResponseWriter, err error) {
	var (
		outOfRange    layout.ErrOutOfRange
		invalidModule fpga.ErrInvalidModule
		badOffset     gateway.ErrBadOffset
		badParam      ErrBadParam
		unknownKind   ErrUnknownKind
		hardware      gateway.ErrHardwareIO
		eepromRead    eeprom.ErrRead
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &outOfRange), errors.As(err, &invalidModule):
		status = http.StatusNotFound
	case errors.As(err, &badOffset), errors.As(err, &badParam), errors.As(err, &unknownKind):
		status = http.StatusBadRequest
	case errors.As(err, &hardware), errors.As(err, &eepromRead):
		status = http.StatusBadGateway
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding response: %s", err)
	}
}

func intVar(r *http.Request, name string) (int, error) {
	value := mux.Vars(r)[name]
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, ErrBadParam{Name: name, Value: value}
	}
	return i, nil
}

func timeoutParam(r *http.Request) (int, error) {
	value := r.URL.Query().Get("timeout")
	if value == "" {
		return DefaultEventTimeoutMs, nil
	}
	timeout, err := strconv.Atoi(value)
	if err != nil {
		return 0, ErrBadParam{Name: "timeout", Value: value}
	}
	return timeout, nil
}

// waitEvents serves a long or endless wait as a series of bounded polls and
// gives up once ctx is done. The poller is never held past one slice after
// the client goes away.
func waitEvents(ctx context.Context, poll func(int) (bool, event.ChangeSet, error), timeoutMs int) (bool, event.ChangeSet, error) {
	if timeoutMs < 0 || int64(timeoutMs) > math.MaxInt64/int64(time.Millisecond) {
		return poll(timeoutMs)
	}
	var deadline time.Time
	if timeoutMs > 0 {
		deadline = time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
	}
	for {
		if err := ctx.Err(); err != nil {
			return false, event.ChangeSet{}, err
		}
		slice := EventSliceMs
		if !deadline.IsZero() {
			remaining := int(time.Until(deadline) / time.Millisecond)
			if remaining <= 0 {
				return true, event.ChangeSet{}, nil
			}
			if remaining < slice {
				slice = remaining
			}
		}
		reported, changes, err := poll(slice)
		if err != nil || !reported || len(changes) > 0 {
			return reported, changes, err
		}
	}
}

func (s *ApiServer) handlePortPresence() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		port, err := intVar(r, "port")
		if err != nil {
			httpError(w, err)
			return
		}
		present, err := s.srv.Device().PortPresent(port)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, &PresenceResp{Present: present})
	}
}

func (s *ApiServer) handleLpModeGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		port, err := intVar(r, "port")
		if err != nil {
			httpError(w, err)
			return
		}
		enabled, err := s.srv.Device().LowPowerMode(port)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, &LpMode{LpMode: enabled})
	}
}

func (s *ApiServer) handleLpModeSet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		port, err := intVar(r, "port")
		if err != nil {
			httpError(w, err)
			return
		}
		setup := &LpMode{}
		if err := json.NewDecoder(r.Body).Decode(setup); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Debug("Handling lpmode request: port: %d lpmode: %t", port, setup.LpMode)
		if err := s.srv.Device().SetLowPowerMode(port, setup.LpMode); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, setup)
	}
}

func (s *ApiServer) handleReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		port, err := intVar(r, "port")
		if err != nil {
			httpError(w, err)
			return
		}
		if err := s.srv.Device().Reset(port); err != nil {
			httpError(w, err)
			return
		}
	}
}

func (s *ApiServer) handleEEPROM() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		port, err := intVar(r, "port")
		if err != nil {
			httpError(w, err)
			return
		}
		info, err := s.srv.eeprom.Read(port)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, info)
	}
}

func (s *ApiServer) handlePortEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timeout, err := timeoutParam(r)
		if err != nil {
			httpError(w, err)
			return
		}
		log.Debug("Handling port events request: timeout: %d ms", timeout)
		reported, changes, err := waitEvents(r.Context(), s.srv.PortEvents, timeout)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, &EventResp{Reported: reported, Changes: changes})
	}
}

func (s *ApiServer) handleModuleEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timeout, err := timeoutParam(r)
		if err != nil {
			httpError(w, err)
			return
		}
		log.Debug("Handling module events request: timeout: %d ms", timeout)
		reported, changes, err := waitEvents(r.Context(), s.srv.ModuleEvents, timeout)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, &EventResp{Reported: reported, Changes: changes})
	}
}

func (s *ApiServer) handleModulePresence() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		module, err := intVar(r, "module")
		if err != nil {
			httpError(w, err)
			return
		}
		present, err := s.srv.Device().ModulePresent(module)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, &PresenceResp{Present: present})
	}
}

func (s *ApiServer) handleModuleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		module, err := intVar(r, "module")
		if err != nil {
			httpError(w, err)
			return
		}
		status, err := s.srv.Device().ModulePowerStatus(module)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, &StatusResp{Status: status})
	}
}

func (s *ApiServer) handleModuleBoard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		module, err := intVar(r, "module")
		if err != nil {
			httpError(w, err)
			return
		}
		kind, err := s.srv.Device().ModuleBoardKind(module)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, &BoardResp{Board: kind})
	}
}

func (s *ApiServer) handleModuleQsfp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		module, err := intVar(r, "module")
		if err != nil {
			httpError(w, err)
			return
		}
		status, err := s.srv.Device().QsfpStatus(module)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, status)
	}
}

func (s *ApiServer) handleMdioGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		module, err := intVar(r, "module")
		if err != nil {
			httpError(w, err)
			return
		}
		path, err := s.srv.Device().MdioSourceSel(module)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, &Mdio{Path: path.String()})
	}
}

func (s *ApiServer) handleMdioSet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		module, err := intVar(r, "module")
		if err != nil {
			httpError(w, err)
			return
		}
		setup := &Mdio{}
		if err := json.NewDecoder(r.Body).Decode(setup); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var path pim.MdioPath
		switch setup.Path {
		case pim.MdioMac.String():
			path = pim.MdioMac
		case pim.MdioFpga.String():
			path = pim.MdioFpga
		default:
			httpError(w, ErrBadParam{Name: "path", Value: setup.Path})
			return
		}
		if err := s.srv.Device().SetMdioSourceSel(module, path); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, setup)
	}
}

func (s *ApiServer) handleModuleInit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		module, err := intVar(r, "module")
		if err != nil {
			httpError(w, err)
			return
		}
		if err := s.srv.Device().Init(module); err != nil {
			httpError(w, err)
			return
		}
	}
}

func (s *ApiServer) handleHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		kind := query.Get("kind")
		if kind == "" {
			kind = KindPort
		}
		limit := 0
		if value := query.Get("limit"); value != "" {
			var err error
			if limit, err = strconv.Atoi(value); err != nil {
				httpError(w, ErrBadParam{Name: "limit", Value: value})
				return
			}
		}
		records, err := s.srv.Journal().History(kind, limit)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, records)
	}
}

func (s *ApiServer) handleRegRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling reg read request: addr: %s", vars["addr"])

		addr, err := strconv.ParseUint(vars["addr"], 0, 32)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		value, err := s.srv.Device().ReadReg(uint32(addr))
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, &RegHex{
			Addr:  fmt.Sprintf("0x%05x", addr),
			Value: fmt.Sprintf("0x%08x", value),
		})
	}
}

func (s *ApiServer) handleRegWrite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regHex := &RegHex{}
		err := json.NewDecoder(r.Body).Decode(regHex)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Debug("Handling reg write request: addr: %s value: %s", regHex.Addr, regHex.Value)

		addr, err := strconv.ParseUint(regHex.Addr, 0, 32)
		if err != nil {
			httpError(w, ErrBadParam{Name: "addr", Value: regHex.Addr})
			return
		}
		value, err := strconv.ParseUint(regHex.Value, 0, 32)
		if err != nil {
			httpError(w, ErrBadParam{Name: "value", Value: regHex.Value})
			return
		}
		if err := s.srv.Device().WriteReg(uint32(addr), uint32(value)); err != nil {
			httpError(w, err)
			return
		}
	}
}
