package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/punchamoorthee/transmitter/internal/api"
	"github.com/punchamoorthee/transmitter/internal/config"
	"github.com/punchamoorthee/transmitter/internal/contract"
	"github.com/punchamoorthee/transmitter/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	kv, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Unable to open %s store: %v", cfg.StoreBackend, err)
	}
	defer kv.Close()

	// Initialize Layers
	c := contract.New(kv)
	if err := c.Init(context.Background(), contract.AccountID(cfg.OwnerAccount), cfg.Fee); err != nil {
		log.Fatalf("Unable to initialise contract state: %v", err)
	}

	// The gateway stands in for the chain host: transfers out of the
	// contract are acknowledged and logged rather than settled on-chain,
	// and code replacement is not offered.
	transfer := func(to contract.AccountID, amount int64) error {
		log.Printf("host transfer: %d -> %s", amount, to)
		return nil
	}
	handler := api.NewHandler(c, transfer, nil)

	// Router
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", handler.HealthCheck)

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	handler.Register(apiV1)

	log.Printf("Server starting on :%s (%s backend)", cfg.Port, cfg.StoreBackend)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}

func openStore(cfg *config.Config) (store.KV, error) {
	switch cfg.StoreBackend {
	case "mem":
		return store.NewMem(), nil
	case "postgres":
		return store.NewPostgres(context.Background(), cfg.DBSource)
	default:
		return store.NewLevelDB(cfg.DataDir)
	}
}
