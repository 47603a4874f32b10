// Command pricecli is a thin example wiring of the pricing engine, in the
// spirit of the teacher's out-of-scope main.go: it loads run parameters from
// environment variables (optionally via a .env file) and prints a price.
// Parsing the rate-curve string and every other piece of "already-validated
// input" plumbing here is explicitly out of scope for the engine itself per
// spec.md §1/§6 — this command is the external collaborator that supplies
// it.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/quantmc/jdlsm/engine"
	"github.com/quantmc/jdlsm/market"
	"github.com/quantmc/jdlsm/option"
	"github.com/quantmc/jdlsm/ratecurve"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("pricecli: no .env file loaded (%v), falling back to process environment", err)
	}

	curve, err := parseRateCurve(getenv("RATE_CURVE", "1.0:0.05"))
	if err != nil {
		log.Fatalf("pricecli: %v", err)
	}

	sigma := getenvFloat("SIGMA", 0.2)
	mu := getenvFloat("MU", 0.05)
	lambda := getenvFloat("LAMBDA", 0.0)
	gamma := getenvFloat("GAMMA", 0.0)
	sigmaJ := getenvFloat("SIGMA_J", 0.0)
	spot := getenvFloat("SPOT", 100.0)
	riskNeutral := getenvBool("RISK_NEUTRAL", true)

	data, err := market.New(sigma, mu, lambda, gamma, sigmaJ, spot, riskNeutral, curve)
	if err != nil {
		log.Fatalf("pricecli: %v", err)
	}

	strike := getenvFloat("STRIKE", 100.0)
	expiry := getenvFloat("EXPIRY", 1.0)
	side := option.Call
	if strings.EqualFold(getenv("SIDE", "call"), "put") {
		side = option.Put
	}
	family := strings.ToLower(getenv("FAMILY", "european"))

	n := getenvInt("N", 100_000)
	w := getenvInt("W", 4)

	driver, err := engine.New(w)
	if err != nil {
		log.Fatalf("pricecli: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch family {
	case "european":
		contract, err := option.NewEuropean(strike, expiry, side)
		if err != nil {
			log.Fatalf("pricecli: %v", err)
		}
		result, err := driver.PriceEuropean(ctx, contract, data, n)
		if err != nil {
			log.Fatalf("pricecli: %v", err)
		}
		fmt.Printf("European price: %.4f (stderr %.4f)\n", result.Price, result.StdErr)
	case "american":
		contract, err := option.NewAmerican(strike, expiry, side)
		if err != nil {
			log.Fatalf("pricecli: %v", err)
		}
		price, err := driver.PriceLSM(ctx, contract, data, n)
		if err != nil {
			log.Fatalf("pricecli: %v", err)
		}
		fmt.Printf("American price: %.4f\n", price)
	case "bermudan":
		dates, err := parseExerciseDates(getenv("EXERCISE_DATES", ""))
		if err != nil {
			log.Fatalf("pricecli: %v", err)
		}
		contract, err := option.NewBermudan(strike, expiry, side, dates)
		if err != nil {
			log.Fatalf("pricecli: %v", err)
		}
		price, err := driver.PriceLSM(ctx, contract, data, n)
		if err != nil {
			log.Fatalf("pricecli: %v", err)
		}
		fmt.Printf("Bermudan price: %.4f\n", price)
	default:
		log.Fatalf("pricecli: unknown FAMILY %q (want european, american, or bermudan)", family)
	}
}

// parseRateCurve parses a "tau:rate,tau:rate,..." string into a Curve.
func parseRateCurve(s string) (*ratecurve.Curve, error) {
	rates := make(map[float64]float64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("rate curve: malformed entry %q", pair)
		}
		tau, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("rate curve: malformed maturity in %q: %w", pair, err)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("rate curve: malformed rate in %q: %w", pair, err)
		}
		rates[tau] = rate
	}
	return ratecurve.New(rates)
}

func parseExerciseDates(s string) ([]float64, error) {
	var dates []float64
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("exercise dates: malformed entry %q: %w", tok, err)
		}
		dates = append(dates, v)
	}
	return dates, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
