// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli"

	"github.com/diffeo/go-strata/cif"
	"github.com/diffeo/go-strata/strata"
)

var renderCIF = cli.Command{
	Name:      "cif",
	Usage:     "render one structure as CIF text",
	ArgsUsage: "id",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "type",
			Value: strata.StructuresType,
			Usage: "entry type to read from",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.NewExitError("expected one record id", 1)
		}
		collection, err := shared.collection(c)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		resource, err := collection.Get(context.Background(), c.Args().First())
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		text, err := cif.FromResource(resource)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Fprint(c.App.Writer, text)
		return nil
	},
}
