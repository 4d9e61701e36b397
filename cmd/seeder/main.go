package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/punchamoorthee/transmitter/internal/contract"
	"github.com/punchamoorthee/transmitter/internal/store"
)

// Seeds a LevelDB store with demo accounts, usernames and mailbox traffic so a
// gateway pointed at the same DATA_DIR starts with populated state.
var (
	dataDir string
	names   int
	fee     int64
)

func init() {
	flag.StringVar(&dataDir, "data", "./data", "LevelDB data directory")
	flag.IntVar(&names, "names", 25, "Number of demo usernames to register")
	flag.Int64Var(&fee, "fee", 100, "Registration fee for a fresh store")
}

func main() {
	flag.Parse()

	owner := os.Getenv("OWNER_ACCOUNT")
	if owner == "" {
		owner = "acct-" + uuid.NewString()
		log.Printf("OWNER_ACCOUNT not set, generated %s", owner)
	}

	kv, err := store.NewLevelDB(dataDir)
	if err != nil {
		log.Fatalf("Unable to open store: %v", err)
	}
	defer kv.Close()

	ctx := context.Background()
	c := contract.New(kv)
	if err := c.Init(ctx, contract.AccountID(owner), fee); err != nil {
		log.Fatalf("Unable to initialise contract: %v", err)
	}

	log.Printf("--- Seeding %d usernames ---", names)

	var height uint64
	env := func(caller contract.AccountID, attached int64) contract.Env {
		height++
		return contract.Env{
			Caller:      caller,
			Transferred: attached,
			BlockHeight: height,
			Now:         int64(height), // deterministic timestamps for demo data
		}
	}

	var previous contract.Username
	for i := 0; i < names; i++ {
		account := contract.AccountID("acct-" + uuid.NewString())
		name := contract.Username(fmt.Sprintf("demo-%04d", i))

		if err := c.RegisterUsername(ctx, env(account, fee), name); err != nil {
			log.Fatalf("register %s: %v", name, err)
		}

		// Each name greets the previously registered one.
		if previous != "" {
			content := []byte(fmt.Sprintf("hello from %s", name))
			mt := contract.MessageType{Kind: contract.KindText}
			if err := c.SendMessage(ctx, env(account, 0), name, previous, mt, content); err != nil {
				log.Fatalf("send %s -> %s: %v", name, previous, err)
			}
		}
		previous = name
	}

	log.Printf("Successfully seeded %d usernames.", names)
}
