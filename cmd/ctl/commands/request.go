package commands

import (
	"fmt"

	cli "github.com/urfave/cli/v2"

	"github.com/projecteru2/spigot/cni"
	"github.com/projecteru2/spigot/types"
)

// RequestCommands exposes the ADD/DEL/CHECK boundary for one-shot use.
func RequestCommands(flags *Flags) *cli.Command {
	ownerFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "pool",
			Usage:    "pool name",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "container",
			Usage:    "container id",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "ifname",
			Usage: "interface name",
			Value: "eth0",
		},
	}

	return &cli.Command{
		Name:  "request",
		Usage: "run a single attach/detach/check request",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Flags: ownerFlags,
				Action: func(c *cli.Context) error {
					handler, err := newHandler(c, flags)
					if err != nil {
						return err
					}
					result, err := handler.Add(c.Context, requestFrom(c, cni.CommandAdd))
					if err != nil {
						return err
					}
					fmt.Printf("%s/%d gateway=%s\n", result.Address, result.PrefixLength, result.Gateway)
					return nil
				},
			},
			{
				Name:  "del",
				Flags: ownerFlags,
				Action: func(c *cli.Context) error {
					handler, err := newHandler(c, flags)
					if err != nil {
						return err
					}
					return handler.Del(c.Context, requestFrom(c, cni.CommandDel))
				},
			},
			{
				Name: "check",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "address",
						Usage: "address the caller believes it holds",
					},
				}, ownerFlags...),
				Action: func(c *cli.Context) error {
					handler, err := newHandler(c, flags)
					if err != nil {
						return err
					}
					request := requestFrom(c, cni.CommandCheck)
					request.ReportedAddress = c.String("address")
					return handler.Check(c.Context, request)
				},
			},
		},
	}
}

func newHandler(c *cli.Context, flags *Flags) (*cni.Handler, error) {
	alloc, err := newAllocator(c.Context, flags)
	if err != nil {
		return nil, err
	}
	return cni.NewHandler(alloc), nil
}

func requestFrom(c *cli.Context, command cni.Command) cni.Request {
	return cni.Request{
		Command:  command,
		PoolName: c.String("pool"),
		Owner: types.OwnerKey{
			ContainerID:   c.String("container"),
			InterfaceName: c.String("ifname"),
		},
	}
}
