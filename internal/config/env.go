package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

// envIntStrict is envInt for values where a typo must not silently become
// the default.
func envIntStrict(k string, d int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q", k, v)
	}
	return n, nil
}

func envDecimal(k, d string) (decimal.Decimal, error) {
	v := envStr(k, d)
	n, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal for %s: %q", k, v)
	}
	return n, nil
}

// envInts parses a comma separated list such as "1,2,3".
func envInts(k string) ([]int, error) {
	v := os.Getenv(k)
	if v == "" {
		return nil, nil
	}
	var out []int
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid int list for %s: %q", k, v)
		}
		out = append(out, n)
	}
	return out, nil
}

// must retrieves a required environment variable.
func must(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return v, nil
}
