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

// Command xgate runs the gateway and its services.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/michaelquigley/pfxlog"
	"github.com/openziti/xgate"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML (.yml, .yaml) or TOML (.toml) configuration file, the built-in configuration is used when empty")
		verbose    = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	level := logrus.InfoLevel
	if *verbose {
		level = logrus.DebugLevel
	}
	pfxlog.GlobalInit(level, pfxlog.DefaultOptions().SetTrimPrefix("github.com/openziti/"))

	if err := run(*configPath); err != nil {
		pfxlog.Logger().WithError(err).Fatal("xgate stopped")
	}
}

func run(configPath string) error {
	log := pfxlog.Logger()

	cfgmap, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	instance, err := newInstance(cfgmap)
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErrs := make(chan error, len(instance.GetConfig().ServerConfigs))
	instance.OnServerError = func(server *xgate.Server, err error) {
		log.WithError(err).Errorf("server %s stopped", server.ServerConfig.Name)
		serverErrs <- errors.Wrapf(err, "server %s", server.ServerConfig.Name)
		cancel()
	}

	if err := instance.Run(); err != nil {
		return err
	}

	for _, server := range instance.Servers() {
		log.Infof("server %s mounts services %v", server.ServerConfig.Name, server.Services.Ids())
	}

	<-ctx.Done()
	log.Info("shutting down")
	instance.Shutdown()

	select {
	case err := <-serverErrs:
		return err
	default:
		return nil
	}
}
