package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: configuration sane
	if err := checkConfig(ctx); err != nil {
		fmt.Printf("❌ Configuration: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Configuration: OK\n")
	}

	// Check 2: backend reachable
	if err := checkBackend(ctx); err != nil {
		fmt.Printf("❌ Backend reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Backend reachable: OK\n")
	}

	// Check 3: data dir writable
	if err := checkDataDir(ctx); err != nil {
		fmt.Printf("❌ Data directory writable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Data directory writable: OK\n")
	}

	// Check 4: recents cache opens (warning only)
	if err := checkRecents(ctx); err != nil {
		fmt.Printf("⚠ Recents cache: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Recents cache: OK\n")
	}

	// Check 5: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkConfig(ctx *Context) error {
	if ctx.Config.BaseURL == "" {
		return fmt.Errorf("base URL is empty; set COLEGIO_BASE_URL")
	}
	if ctx.Config.Token == "" {
		return fmt.Errorf("token is empty; set COLEGIO_TOKEN")
	}
	return nil
}

func checkBackend(ctx *Context) error {
	cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ctx.Client.Ping(cctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func checkDataDir(ctx *Context) error {
	if err := os.MkdirAll(ctx.Config.DataDir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", ctx.Config.DataDir, err)
	}
	probe := filepath.Join(ctx.Config.DataDir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("cannot write in %s: %w", ctx.Config.DataDir, err)
	}
	return os.Remove(probe)
}

func checkRecents(ctx *Context) error {
	if ctx.Recents == nil {
		return fmt.Errorf("recents store not configured")
	}
	if err := ctx.Recents.Open(); err != nil {
		return fmt.Errorf("cannot open recents cache: %w", err)
	}
	return ctx.Recents.Close()
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
