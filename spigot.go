package main

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"

	"github.com/projecteru2/spigot/allocator"
	"github.com/projecteru2/spigot/driver"
	"github.com/projecteru2/spigot/etcd"
	"github.com/projecteru2/spigot/store"
	boltstore "github.com/projecteru2/spigot/store/bolt"
	etcdstore "github.com/projecteru2/spigot/store/etcd"
	"github.com/projecteru2/spigot/types"
	"github.com/projecteru2/spigot/versioninfo"
)

var (
	configPath string
	debug      bool
)

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Print(versioninfo.VersionString())
	}

	app := &cli.App{
		Name:    "Spigot",
		Usage:   "IPAM plugin daemon for container networks",
		Version: versioninfo.VERSION,
		Action:  run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Value:       "/etc/spigot/config.yaml",
				Usage:       "config file path",
				Destination: &configPath,
				EnvVars:     []string{"SPIGOT_CONFIG"},
			},
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "debug or not",
				Destination: &debug,
				EnvVars:     []string{"SPIGOT_DEBUG"},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func run(c *cli.Context) error {
	if debug {
		log.SetLevel(log.DebugLevel)
		log.Debugln("Debug logging enabled")
	}

	config, err := types.LoadConfig(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	stor, err := newStore(ctx, config)
	if err != nil {
		return err
	}

	alloc := allocator.NewAllocator(stor)
	for _, pool := range config.Pools {
		if err := alloc.RegisterPool(ctx, pool); err != nil {
			return err
		}
		log.Infof("registered pool %s (%s)", pool.Name, pool.CIDR)
	}

	log.Printf("%s starting, plugin name %s, store %s", versioninfo.NAME, config.PluginName, config.Store.Kind)
	server := driver.NewPluginServer(config.PluginName)
	return server.ServeIpam(driver.NewIpam(alloc, time.Duration(config.RequestTimeout)))
}

func newStore(ctx context.Context, config *types.Config) (store.Store, error) {
	if config.Store.Kind == "etcd" {
		cli, err := etcd.NewClient(ctx, config.Store.EtcdEndpoints)
		if err != nil {
			return nil, err
		}
		return etcdstore.NewEtcdStore(cli), nil
	}
	return boltstore.NewBolt(config.Store.BoltPath)
}
