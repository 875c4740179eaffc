// Command loadgen fires signed webhook deliveries at a running backend to
// exercise the verification pipeline under load. Each delivery carries a
// valid HMAC unless -tamper is set, a fresh Unix-timestamp webhook id, and
// a minimal compliance payload.
package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type stats struct {
	sent      atomic.Int64
	accepted  atomic.Int64
	rejected  atomic.Int64
	errored   atomic.Int64
	totalTime atomic.Int64 // nanoseconds
}

func main() {
	var (
		target      string
		secret      string
		shop        string
		topic       string
		workers     int
		total       int
		tamper      bool
		timeout     time.Duration
	)

	flag.StringVar(&target, "target", "http://localhost:8080/api/v1/webhooks/platform", "Webhook endpoint URL")
	flag.StringVar(&secret, "secret", "", "Webhook signing secret (required)")
	flag.StringVar(&shop, "shop", "loadtest.example", "Shop domain header value")
	flag.StringVar(&topic, "topic", "orders/create", "Webhook topic header value")
	flag.IntVar(&workers, "workers", 8, "Concurrent senders")
	flag.IntVar(&total, "n", 1000, "Total deliveries to send")
	flag.BoolVar(&tamper, "tamper", false, "Send invalid signatures to measure the rejection path")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")
	flag.Parse()

	if secret == "" {
		fmt.Fprintln(os.Stderr, "loadgen: -secret is required")
		flag.Usage()
		os.Exit(2)
	}

	client := &http.Client{Timeout: timeout}
	body := []byte(fmt.Sprintf(`{"shop_domain":%q,"customer":{"id":"0"}}`, shop))

	signature := sign(secret, body)
	if tamper {
		signature = "deadbeef"
	}

	var st stats
	jobs := make(chan int)
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				send(client, target, topic, shop, signature, body, &st)
			}
		}()
	}

	for i := 0; i < total; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	elapsed := time.Since(start)

	sent := st.sent.Load()
	fmt.Printf("sent:     %d in %s (%.1f req/s)\n", sent, elapsed.Round(time.Millisecond), float64(sent)/elapsed.Seconds())
	fmt.Printf("accepted: %d\n", st.accepted.Load())
	fmt.Printf("rejected: %d\n", st.rejected.Load())
	fmt.Printf("errors:   %d\n", st.errored.Load())
	if sent > 0 {
		mean := time.Duration(st.totalTime.Load() / sent)
		fmt.Printf("mean:     %s\n", mean.Round(time.Microsecond))
	}
}

func send(client *http.Client, target, topic, shop, signature string, body []byte, st *stats) {
	req, err := http.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		st.errored.Add(1)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Topic", topic)
	req.Header.Set("X-Shopify-Shop-Domain", shop)
	req.Header.Set("X-Shopify-Webhook-Id", fmt.Sprintf("%d", time.Now().Unix()))
	req.Header.Set("X-Shopify-Hmac-Sha256", signature)

	begin := time.Now()
	resp, err := client.Do(req)
	st.totalTime.Add(int64(time.Since(begin)))
	st.sent.Add(1)
	if err != nil {
		st.errored.Add(1)
		return
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		st.accepted.Add(1)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		st.rejected.Add(1)
	default:
		st.errored.Add(1)
	}
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
