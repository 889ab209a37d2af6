// Command loadgen drives synthetic traffic against a running exchanged
// instance and reports throughput, adapted from the profiling/benchmark
// harnesses used to exercise the matching engine directly in-process.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "server address")
	conns := flag.Int("conns", 8, "number of concurrent connections")
	duration := flag.Duration("duration", 5*time.Second, "how long to generate load")
	symbol := flag.String("symbol", "V", "symbol to trade")
	flag.Parse()

	var sent, responses int64
	deadline := time.Now().Add(*duration)

	var wg sync.WaitGroup
	for i := 0; i < *conns; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			if err := generate(worker, *addr, *symbol, deadline, &sent, &responses); err != nil {
				log.Printf("worker %d stopped: %v", worker, err)
			}
		}(i)
	}
	wg.Wait()

	elapsed := *duration
	fmt.Printf("sent=%d responses=%d elapsed=%s throughput=%.0f req/s\n",
		atomic.LoadInt64(&sent), atomic.LoadInt64(&responses), elapsed,
		float64(atomic.LoadInt64(&sent))/elapsed.Seconds())
}

func generate(worker int, addr, symbol string, deadline time.Time, sent, responses *int64) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	if _, err := reader.ReadString('\n'); err != nil { // connected
		return fmt.Errorf("handshake: %w", err)
	}

	rng := rand.New(rand.NewSource(int64(worker) + time.Now().UnixNano()))
	for time.Now().Before(deadline) {
		side := "buy"
		if rng.Intn(2) == 0 {
			side = "sell"
		}
		price := 100 + rng.Float64()*10
		req := fmt.Sprintf(`{"type":%q,"symbol":%q,"price":%.2f,"quantity":%d}`+"\n",
			side, symbol, price, 1+rng.Intn(20))

		if _, err := conn.Write([]byte(req)); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		atomic.AddInt64(sent, 1)

		if _, err := reader.ReadString('\n'); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		atomic.AddInt64(responses, 1)
	}
	return nil
}
