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

// Package eeprom reads the identification page of QSFP transceivers
package eeprom

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"jinr.ru/greenlab/go-pim/pkg/layout"
	"jinr.ru/greenlab/go-pim/pkg/log"
)

const (
	PageSize  = 256
	chunkSize = 128
)

// SFF-8636 lower page and upper page 00h
const (
	offIdentifier = 0
	offVendorName = 148
	offVendorOUI  = 165
	offPartNumber = 168
	offRevision   = 184
	offSerial     = 196
	offDateCode   = 212
)

var identifiers = map[byte]string{
	0x03: "SFP",
	0x0C: "QSFP",
	0x0D: "QSFP+",
	0x11: "QSFP28",
	0x18: "QSFP-DD",
	0x1E: "QSFP+ (CMIS)",
}

type Info struct {
	Port       int    `json:"port"`
	Bus        int    `json:"bus"`
	Identifier byte   `json:"identifier"`
	Type       string `json:"type"`
	Vendor     string `json:"vendor"`
	VendorOUI  string `json:"vendorOui"`
	PartNumber string `json:"partNumber"`
	Revision   string `json:"revision"`
	Serial     string `json:"serial"`
	DateCode   string `json:"dateCode"`
}

// Opener returns a connection to the EEPROM on the given bus
type Opener func(bus int) (conn.Conn, io.Closer, error)

type Reader struct {
	layout *layout.Layout
	open   Opener
	path   func(port int) (string, error)
}

func NewReader(l *layout.Layout) *Reader {
	return &Reader{
		layout: l,
		open:   openI2C,
		path:   l.EEPROMPath,
	}
}

// NewReaderWithOpener bypasses sysfs and reads every EEPROM through open
func NewReaderWithOpener(l *layout.Layout, open Opener) *Reader {
	return &Reader{
		layout: l,
		open:   open,
		path:   func(int) (string, error) { return "", os.ErrNotExist },
	}
}

var hostInit struct {
	once sync.Once
	err  error
}

func openI2C(bus int) (conn.Conn, io.Closer, error) {
	hostInit.once.Do(func() {
		_, hostInit.err = host.Init()
	})
	if hostInit.err != nil {
		return nil, nil, fmt.Errorf("could not init host: %w", hostInit.err)
	}
	b, err := i2creg.Open(strconv.Itoa(bus))
	if err != nil {
		return nil, nil, fmt.Errorf("could not open bus %d: %w", bus, err)
	}
	return &i2c.Dev{Bus: b, Addr: layout.EEPROMAddr}, b, nil
}

// Read returns the identification of the transceiver in the port. The
// optoe sysfs node is used when the kernel exposes it, the raw bus otherwise.
func (r *Reader) Read(port int) (*Info, error) {
	bus, err := r.layout.ResolveBus(port)
	if err != nil {
		return nil, err
	}
	page, err := r.readSysfs(port)
	if err != nil {
		log.Debug("EEPROM sysfs read failed for port %d: %s, using i2c bus %d", port, err, bus)
		page, err = r.readI2C(bus)
		if err != nil {
			return nil, ErrRead{Port: port, Bus: bus, Err: err}
		}
	}
	info, err := Decode(page)
	if err != nil {
		return nil, err
	}
	info.Port = port
	info.Bus = bus
	return info, nil
}

func (r *Reader) readSysfs(port int) ([]byte, error) {
	path, err := r.path(port)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	page := make([]byte, PageSize)
	if _, err := io.ReadFull(f, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (r *Reader) readI2C(bus int) ([]byte, error) {
	dev, closer, err := r.open(bus)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	page := make([]byte, PageSize)
	for off := 0; off < PageSize; off += chunkSize {
		if err := dev.Tx([]byte{byte(off)}, page[off:off+chunkSize]); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// Decode parses an SFF-8636 identification page
func Decode(page []byte) (*Info, error) {
	if len(page) < PageSize {
		return nil, ErrShortPage{Len: len(page)}
	}
	id := page[offIdentifier]
	typ, ok := identifiers[id]
	if !ok {
		typ = fmt.Sprintf("unknown (0x%02x)", id)
	}
	oui := page[offVendorOUI : offVendorOUI+3]
	return &Info{
		Identifier: id,
		Type:       typ,
		Vendor:     field(page, offVendorName, 16),
		VendorOUI:  fmt.Sprintf("%02x:%02x:%02x", oui[0], oui[1], oui[2]),
		PartNumber: field(page, offPartNumber, 16),
		Revision:   field(page, offRevision, 2),
		Serial:     field(page, offSerial, 16),
		DateCode:   field(page, offDateCode, 8),
	}, nil
}

// field returns a space padded ASCII field
func field(page []byte, off, size int) string {
	return strings.TrimRight(string(page[off:off+size]), " \x00")
}
