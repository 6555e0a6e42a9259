package commands

import (
	"bufio"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v2"

	"github.com/projecteru2/spigot/types"
)

// LeaseCommands .
func LeaseCommands(flags *Flags) *cli.Command {
	return &cli.Command{
		Name:  "lease",
		Usage: "inspect and reclaim leases",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list leases of a pool",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "pool",
						Usage:    "pool name",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "include released tombstones",
					},
				},
				Action: func(c *cli.Context) error {
					alloc, err := newAllocator(c.Context, flags)
					if err != nil {
						return err
					}
					leases, err := alloc.Leases(c.Context, c.String("pool"))
					if err != nil {
						return err
					}
					for _, lease := range leases {
						if !lease.Held() && !c.Bool("all") {
							continue
						}
						state := "held"
						if !lease.Held() {
							state = "released"
						}
						fmt.Printf("%s\t%s\tseq=%d\t%s\n", lease.Address, lease.Owner, lease.Seq, state)
					}
					return nil
				},
			},
			{
				Name:  "sweep",
				Usage: "release leases whose owner is not in the live list",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "pool",
						Usage:    "pool name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "alive-file",
						Usage:    "file with one live owner key per line, containerID/interface",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					alive, err := readOwnerSet(c.String("alive-file"))
					if err != nil {
						return err
					}
					alloc, err := newAllocator(c.Context, flags)
					if err != nil {
						return err
					}
					released, err := alloc.Sweep(c.Context, c.String("pool"), func(owner types.OwnerKey) bool {
						_, ok := alive[owner.String()]
						return ok
					})
					if err != nil {
						return err
					}
					fmt.Printf("released %d leases\n", released)
					return nil
				},
			},
		},
	}
}

func readOwnerSet(path string) (map[string]struct{}, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	owners := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			owners[line] = struct{}{}
		}
	}
	return owners, scanner.Err()
}
