// Package main implements the chartmark-annot binary: management of the
// local annotation catalog (named event sets binnable onto charts).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chartmark/chartmark/internal/annostore"
	"github.com/chartmark/chartmark/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (YAML or JSON)")
		storePath  = flag.String("store", "", "annotation catalog path (overrides config)")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	path := *storePath
	if path == "" {
		if err := cfg.EnsureDirectories(); err != nil {
			log.Fatalf("Failed to create data directories: %v", err)
		}
		path = cfg.StorePath()
	}

	store, err := annostore.NewStore(path)
	if err != nil {
		log.Fatalf("Failed to open annotation catalog: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	args := flag.Args()

	switch args[0] {
	case "add":
		runAdd(ctx, store, args[1:])
	case "list":
		runList(ctx, store)
	case "show":
		runShow(ctx, store, args[1:])
	case "delete":
		runDelete(ctx, store, args[1:])
	default:
		log.Fatalf("Unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: chartmark-annot [flags] <command>

Commands:
  add -name <name> -times <file>   register a set from a JSON array of millis
  list                             list registered annotation sets
  show -name <name>                print a set as JSON
  delete -id <set-id>              remove a set

Flags:
`)
	flag.PrintDefaults()
}

func runAdd(ctx context.Context, store annostore.Store, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "annotation set name")
	timesFile := fs.String("times", "", "JSON file holding an array of millisecond timestamps")
	fs.Parse(args)

	if *name == "" || *timesFile == "" {
		log.Fatalf("add requires -name and -times")
	}

	data, err := os.ReadFile(*timesFile)
	if err != nil {
		log.Fatalf("Failed to read times file: %v", err)
	}
	var times []int64
	if err := json.Unmarshal(data, &times); err != nil {
		log.Fatalf("Times file is not a JSON array of integers: %v", err)
	}

	setID, err := store.Put(ctx, *name, times)
	if err != nil {
		log.Fatalf("Failed to register annotation set: %v", err)
	}
	fmt.Printf("%s\n", setID)
}

func runList(ctx context.Context, store annostore.Store) {
	infos, err := store.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list annotation sets: %v", err)
	}

	for _, info := range infos {
		fmt.Printf("%s  %-24s  %6d events  %s\n",
			info.SetID, info.Name, info.EventCount, info.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func runShow(ctx context.Context, store annostore.Store, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	name := fs.String("name", "", "annotation set name")
	fs.Parse(args)

	if *name == "" {
		log.Fatalf("show requires -name")
	}

	set, err := store.GetByName(ctx, *name)
	if err != nil {
		log.Fatalf("Failed to load annotation set: %v", err)
	}

	out, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode annotation set: %v", err)
	}
	fmt.Printf("%s\n", out)
}

func runDelete(ctx context.Context, store annostore.Store, args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "annotation set ID")
	fs.Parse(args)

	if *id == "" {
		log.Fatalf("delete requires -id")
	}

	if err := store.Delete(ctx, *id); err != nil {
		log.Fatalf("Failed to delete annotation set: %v", err)
	}
}
