// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package strataload provides a bulk data tool for strata
// deployments.  It loads backend-form records from YAML or JSON
// fixture files into a storage backend, and exports stored records as
// spreadsheets or CIF text.
package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/satori/go.uuid"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"

	"github.com/diffeo/go-strata/backend"
	"github.com/diffeo/go-strata/config"
	"github.com/diffeo/go-strata/export"
	"github.com/diffeo/go-strata/restdata"
	"github.com/diffeo/go-strata/strata"
)

// tool holds the storage handle shared by the subcommands.
type tool struct {
	Storage strata.Storage
}

var shared tool

// collection resolves the --type flag to a collection.
func (t *tool) collection(c *cli.Context) (strata.Collection, error) {
	return t.Storage.Collection(c.String("type"))
}

var loadRecords = cli.Command{
	Name:      "load",
	Usage:     "load backend-form records from a fixture file",
	ArgsUsage: "file.yaml",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "type",
			Value: strata.StructuresType,
			Usage: "entry type to load into",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.NewExitError("expected one fixture file", 1)
		}
		collection, err := shared.collection(c)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		docs, err := readFixtures(c.Args().First())
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}

		// Records without an ID get a fresh one, under the
		// deployment's own name for the id field.
		idField := collection.Mapper().BackendField("id")
		for _, doc := range docs {
			if _, ok := doc[idField]; !ok {
				doc[idField] = uuid.NewV4().String()
			}
		}

		// Links records have typed attributes; validate them now so
		// a bad link_type fails at load time instead of at serve
		// time.
		if c.String("type") == strata.LinksType {
			m := collection.Mapper()
			for _, doc := range docs {
				resource, err := m.Reshape(doc)
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				attrs, _ := strata.Document(resource).Attributes()
				if _, err := restdata.DecodeLinksAttributes(attrs); err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
			}
		}

		if err := collection.Insert(context.Background(), docs); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Fprintf(c.App.Writer, "loaded %d records\n", len(docs))
		return nil
	},
}

var exportListing = cli.Command{
	Name:  "export",
	Usage: "export stored records as an XLSX spreadsheet",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "type",
			Value: strata.StructuresType,
			Usage: "entry type to export",
		},
		cli.StringFlag{
			Name:  "output, o",
			Value: "strata.xlsx",
			Usage: "spreadsheet file to write",
		},
	},
	Action: func(c *cli.Context) error {
		collection, err := shared.collection(c)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		docs, err := allResources(collection)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		sheet, err := export.Listing(collection.Mapper(), docs)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		if err := ioutil.WriteFile(c.String("output"), sheet, 0666); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Fprintf(c.App.Writer, "exported %d records to %s\n",
			len(docs), c.String("output"))
		return nil
	},
}

// allResources pages through a collection and collects every
// canonical resource.
func allResources(c strata.Collection) ([]strata.Document, error) {
	var docs []strata.Document
	q := strata.Query{Sort: []strata.Sort{{Field: "id"}}}
	for {
		results, err := c.Find(context.Background(), q)
		if err != nil {
			return nil, err
		}
		docs = append(docs, results.Documents...)
		if !results.More {
			return docs, nil
		}
		q.Offset += len(results.Documents)
	}
}

// readFixtures parses a fixture file as a list of documents.  YAML is
// a superset of JSON, so both formats decode here.
func readFixtures(path string) ([]strata.Document, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []map[interface{}]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	docs := make([]strata.Document, 0, len(raw))
	for _, entry := range raw {
		doc, ok := cleanseValue(entry).(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: fixture record is not a mapping", path)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// cleanseValue rewrites YAML's interface-keyed maps as string-keyed
// maps, recursively, so the documents can travel through JSON-based
// backends.
func cleanseValue(value interface{}) interface{} {
	switch typed := value.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(typed))
		for key, member := range typed {
			out[fmt.Sprintf("%v", key)] = cleanseValue(member)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, member := range typed {
			out[i] = cleanseValue(member)
		}
		return out
	default:
		return value
	}
}

func main() {
	storageFlag := backend.Backend{Implementation: "memory"}
	app := cli.NewApp()
	app.Usage = "load and export strata records"
	app.Flags = []cli.Flag{
		cli.GenericFlag{
			Name:  "backend",
			Value: &storageFlag,
			Usage: "impl[:address] of the storage backend",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "deployment configuration YAML file",
		},
	}
	app.Commands = []cli.Command{
		loadRecords,
		exportListing,
		renderCIF,
	}
	app.Before = func(c *cli.Context) error {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		shared.Storage, err = storageFlag.Storage(cfg)
		return err
	}
	app.After = func(c *cli.Context) error {
		if shared.Storage != nil {
			return shared.Storage.Close()
		}
		return nil
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
