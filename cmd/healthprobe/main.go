package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/valyala/fasthttp"
)

// Small standalone prober: polls the chat server's liveness endpoint and
// exits non-zero when it stays unhealthy. Meant for container health
// checks and deployment gates.
func main() {
	target := flag.String("target", "http://127.0.0.1:8080/healthz", "health endpoint to probe")
	attempts := flag.Int("attempts", 3, "how many times to try before giving up")
	interval := flag.Duration("interval", 2*time.Second, "delay between attempts")
	timeout := flag.Duration("timeout", 3*time.Second, "per-request timeout")
	flag.Parse()

	c := &fasthttp.Client{
		ReadTimeout:  *timeout,
		WriteTimeout: *timeout,
	}

	for i := 1; i <= *attempts; i++ {
		status, body, err := c.GetTimeout(nil, *target, *timeout)
		if err == nil && status == fasthttp.StatusOK {
			fmt.Printf("healthy: %s\n", string(body))
			os.Exit(0)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "attempt %d/%d failed: %v\n", i, *attempts, err)
		} else {
			fmt.Fprintf(os.Stderr, "attempt %d/%d: status %d\n", i, *attempts, status)
		}
		if i < *attempts {
			time.Sleep(*interval)
		}
	}
	os.Exit(1)
}
