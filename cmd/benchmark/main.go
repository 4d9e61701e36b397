package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
	fee         int64
	poolSize    int
)

// Metrics
var (
	totalRequests uint64
	success2xx    uint64 // Accepted invocations
	fail402       uint64 // Payment shortfalls
	fail409       uint64 // Name conflicts
	failOther     uint64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "Gateway base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "register", "Workload type: register | send")
	flag.Int64Var(&fee, "fee", 100, "Attached value per registration")
	flag.IntVar(&poolSize, "pool", 100, "Pre-registered name pool for the send workload")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	var caller string
	var pool []string
	if workload == "send" {
		caller, pool = seedNamePool()
	}

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, start, caller, pool)
	}

	wg.Wait()
	printResults(time.Since(start))
}

// seedNamePool registers the names the send workload messages between. All of
// them belong to one benchmark account so any worker may send from any name.
func seedNamePool() (string, []string) {
	client := &http.Client{Timeout: 5 * time.Second}
	caller := "bench-" + uuid.NewString()

	names := make([]string, 0, poolSize)
	for i := 0; i < poolSize; i++ {
		name := fmt.Sprintf("bench-%s-%04d", uuid.NewString()[:8], i)
		status, err := post(client, caller, "/api/v1/names", map[string]interface{}{
			"name":           name,
			"attached_value": fee,
		})
		if err != nil || status != http.StatusCreated {
			log.Fatalf("seed name %s: status %d err %v", name, status, err)
		}
		names = append(names, name)
	}
	log.Printf("Seeded %d names under %s", len(names), caller)
	return caller, names
}

func worker(wg *sync.WaitGroup, start time.Time, caller string, pool []string) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}
	if caller == "" {
		caller = "bench-" + uuid.NewString()
	}

	for time.Since(start) < duration {
		var status int
		var err error

		switch workload {
		case "send":
			from := pool[rand.Intn(len(pool))]
			to := pool[rand.Intn(len(pool))]
			status, err = post(client, caller, "/api/v1/messages", map[string]interface{}{
				"from":    from,
				"to":      to,
				"type":    map[string]string{"kind": "text"},
				"content": []byte("benchmark payload"),
			})
		default:
			status, err = post(client, caller, "/api/v1/names", map[string]interface{}{
				"name":           "bench-" + uuid.NewString(),
				"attached_value": fee,
			})
		}

		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch {
		case status >= 200 && status < 300:
			atomic.AddUint64(&success2xx, 1)
		case status == http.StatusPaymentRequired:
			atomic.AddUint64(&fail402, 1)
		case status == http.StatusConflict:
			atomic.AddUint64(&fail409, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
	}
}

func post(client *http.Client, caller, path string, payload interface{}) (int, error) {
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", targetURL+path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller-Account", caller)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	ok := atomic.LoadUint64(&success2xx)
	payment := atomic.LoadUint64(&fail402)
	conflict := atomic.LoadUint64(&fail409)
	fErr := atomic.LoadUint64(&failOther)

	results := map[string]interface{}{
		"workload":         workload,
		"duration_sec":     d.Seconds(),
		"total_requests":   total,
		"throughput_tps":   float64(total) / d.Seconds(),
		"success":          ok,
		"payment_failures": payment,
		"name_conflicts":   conflict,
		"errors":           fErr,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	filename := fmt.Sprintf("results_%s.json", workload)
	file, _ := os.Create(filename)
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
