package cliapp

import (
	"testing"
	"time"
)

func TestAppRequiresAddressAndPool(t *testing.T) {
	app := New(func(Config) error { return nil })
	err := app.Run([]string{"shaiminer"})
	if err == nil {
		t.Fatalf("expected error when --address and --pool are missing")
	}
}

func TestAppParsesConfig(t *testing.T) {
	var got Config
	app := New(func(c Config) error {
		got = c
		return nil
	})

	err := app.Run([]string{
		"shaiminer",
		"--address", "miner1",
		"--pool", "ws://localhost:3334",
		"--threads", "4",
		"--vdf-bailout", "500",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Address != "miner1" || got.Pool != "ws://localhost:3334" {
		t.Fatalf("unexpected config: %+v", got)
	}
	if got.Threads != 4 {
		t.Fatalf("Threads = %d, want 4", got.Threads)
	}
	if got.VDFBailout != 500*time.Millisecond {
		t.Fatalf("VDFBailout = %v, want 500ms", got.VDFBailout)
	}
}

func TestAppDefaultsBailout(t *testing.T) {
	var got Config
	app := New(func(c Config) error {
		got = c
		return nil
	})
	err := app.Run([]string{"shaiminer", "--address", "a", "--pool", "ws://x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.VDFBailout != 1000*time.Millisecond {
		t.Fatalf("VDFBailout = %v, want default 1000ms", got.VDFBailout)
	}
}
