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
	"os"
	"os/signal"
	"syscall"

	"github.com/tebeka/atexit"

	"jinr.ru/greenlab/go-pim/pkg/config"
	"jinr.ru/greenlab/go-pim/pkg/log"
	"jinr.ru/greenlab/go-pim/pkg/srv"
)

// StartServer runs the daemon until it is interrupted. The gateway and the
// journal are released on every exit path.
func StartServer(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := srv.NewServer(ctx, cfg)
	if err != nil {
		return err
	}
	atexit.Register(s.Close)
	defer s.Close()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		log.Info("Received %s, shutting down", <-sig)
		cancel()
		atexit.Exit(0)
	}()

	return s.Run()
}
