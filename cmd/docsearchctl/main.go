// Command docsearchctl runs one-off operator tasks against the document
// search gateway's backing store: provisioning an index, registering the
// ingest/hybrid-search pipelines, loading an ML model, or removing an index.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"docsearch-gateway/internal/docsearch/config"
	"docsearch-gateway/internal/docsearch/docmodel"
	"docsearch-gateway/internal/docsearch/storage"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "create-index":
		runCreateIndex(args)
	case "delete-index":
		runDeleteIndex(args)
	case "init-pipelines":
		runInitPipelines(args)
	case "load-model":
		runLoadModel(args)
	case "-h", "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "docsearchctl: unknown subcommand %q\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: docsearchctl <subcommand> [flags]

Subcommands:
  create-index     provision a new index with its knn mapping
  delete-index     remove an index
  init-pipelines   update cluster settings and register the ingest/hybrid pipelines
  load-model       deploy an ML Commons model and wait for it to come online`)
}

func loadConfigAndClient(configPath string) (*config.Config, *storage.Client) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	client, err := storage.NewClient(storage.Config{
		Addresses:          cfg.BackingStore.Addresses,
		Username:           cfg.BackingStore.Username,
		Password:           cfg.BackingStore.Password,
		InsecureSkipVerify: cfg.BackingStore.InsecureSkipVerify,
		DefaultModelID:     cfg.BackingStore.DefaultModelID,
		NumberOfShards:     cfg.BackingStore.NumberOfShards,
		NumberOfReplicas:   cfg.BackingStore.NumberOfReplicas,
	})
	if err != nil {
		log.Fatalf("connect to backing store: %v", err)
	}
	return cfg, client
}

func runCreateIndex(args []string) {
	fs := flag.NewFlagSet("create-index", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config.yaml")
	id := fs.String("id", "", "index id (required)")
	name := fs.String("name", "", "index display name")
	path := fs.String("path", "", "index path")
	uniqueDocID := fs.Bool("unique-doc-id", false, "derive deterministic MD5 document ids")
	fs.Parse(args)

	if *id == "" {
		log.Fatal("create-index: -id is required")
	}

	cfg, client := loadConfigAndClient(*configPath)
	knn := docmodel.KnnIndexParams{
		KnnDimension:  cfg.BackingStore.KnnDimension,
		TokenLimit:    cfg.BackingStore.TokenLimit,
		OverlapRate:   cfg.BackingStore.OverlapRate,
		KnnEfSearcher: cfg.BackingStore.EfSearch,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexID, err := client.CreateIndex(ctx, docmodel.CreateIndexParams{
		ID:          *id,
		Name:        *name,
		Path:        *path,
		Knn:         &knn,
		UniqueDocID: *uniqueDocID,
	})
	if err != nil {
		log.Fatalf("create-index: %v", err)
	}
	fmt.Println(indexID)
}

func runDeleteIndex(args []string) {
	fs := flag.NewFlagSet("delete-index", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config.yaml")
	id := fs.String("id", "", "index id (required)")
	fs.Parse(args)

	if *id == "" {
		log.Fatal("delete-index: -id is required")
	}

	_, client := loadConfigAndClient(*configPath)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.DeleteIndex(ctx, *id); err != nil {
		log.Fatalf("delete-index: %v", err)
	}
	fmt.Printf("deleted %s\n", *id)
}

func runInitPipelines(args []string) {
	fs := flag.NewFlagSet("init-pipelines", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config.yaml")
	fs.Parse(args)

	cfg, client := loadConfigAndClient(*configPath)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.UpdateClusterSettings(ctx); err != nil {
		log.Fatalf("init-pipelines: update cluster settings: %v", err)
	}

	knn := docmodel.KnnIndexParams{
		KnnDimension:  cfg.BackingStore.KnnDimension,
		TokenLimit:    cfg.BackingStore.TokenLimit,
		OverlapRate:   cfg.BackingStore.OverlapRate,
		KnnEfSearcher: cfg.BackingStore.EfSearch,
	}
	if err := client.InitPipelines(ctx, knn); err != nil {
		log.Fatalf("init-pipelines: %v", err)
	}
	fmt.Println("pipelines registered")
}

func runLoadModel(args []string) {
	fs := flag.NewFlagSet("load-model", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config.yaml")
	modelID := fs.String("model-id", "", "ML Commons model id; defaults to backing_store.default_model_id")
	fs.Parse(args)

	cfg, client := loadConfigAndClient(*configPath)
	id := *modelID
	if id == "" {
		id = cfg.BackingStore.DefaultModelID
	}
	if id == "" {
		log.Fatal("load-model: -model-id is required (or set backing_store.default_model_id)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := client.LoadMLModel(ctx, id); err != nil {
		log.Fatalf("load-model: %v", err)
	}
	fmt.Printf("model %s loaded\n", id)
}
