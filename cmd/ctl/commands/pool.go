package commands

import (
	"fmt"

	cli "github.com/urfave/cli/v2"

	"github.com/projecteru2/spigot/types"
)

// PoolCommands .
func PoolCommands(flags *Flags) *cli.Command {
	return &cli.Command{
		Name:  "pool",
		Usage: "manage pool definitions",
		Subcommands: []*cli.Command{
			{
				Name:  "load",
				Usage: "register the pools of a config file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "config file carrying pool definitions",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					config, err := types.LoadConfig(c.String("file"))
					if err != nil {
						return err
					}
					alloc, err := newAllocator(c.Context, flags)
					if err != nil {
						return err
					}
					for _, pool := range config.Pools {
						if err := alloc.RegisterPool(c.Context, pool); err != nil {
							return err
						}
						fmt.Printf("registered pool %s (%s)\n", pool.Name, pool.CIDR)
					}
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list registered pools",
				Action: func(c *cli.Context) error {
					alloc, err := newAllocator(c.Context, flags)
					if err != nil {
						return err
					}
					pools, err := alloc.Pools(c.Context)
					if err != nil {
						return err
					}
					for _, pool := range pools {
						fmt.Printf("%s\t%s\tgateway=%s\texclude=%v\n", pool.Name, pool.CIDR, pool.Gateway, pool.Exclude)
					}
					return nil
				},
			},
		},
	}
}
