package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	"github.com/projecteru2/spigot/cmd/ctl/commands"
	"github.com/projecteru2/spigot/versioninfo"
)

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Print(versioninfo.VersionString())
	}

	flags := commands.Flags{}

	app := &cli.App{
		Name:    "spigot-ctl",
		Usage:   "operate spigot pools and leases",
		Version: versioninfo.VERSION,
		Commands: []*cli.Command{
			commands.PoolCommands(&flags),
			commands.LeaseCommands(&flags),
			commands.RequestCommands(&flags),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "store",
				Usage:       "store backend, bolt or etcd",
				Value:       "bolt",
				Destination: &flags.StoreKind,
				EnvVars:     []string{"SPIGOT_STORE"},
			},
			&cli.StringFlag{
				Name:        "bolt-path",
				Usage:       "bolt store file",
				Value:       "/var/lib/spigot/spigot.db",
				Destination: &flags.BoltPath,
				EnvVars:     []string{"SPIGOT_BOLT_PATH"},
			},
			&cli.StringFlag{
				Name:        "etcd-endpoints",
				Usage:       "etcd endpoints, comma separated",
				Value:       "http://127.0.0.1:2379",
				Destination: &flags.EtcdEndpoints,
				EnvVars:     []string{"SPIGOT_ETCD_ENDPOINTS"},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
