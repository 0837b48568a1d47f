package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func newMatchFlags() *cobra.Command {
	cmd := &cobra.Command{Use: "match"}
	cmd.Flags().String("color", "", "")
	cmd.Flags().String("bowls", "", "")
	cmd.Flags().String("max-price", "", "")
	cmd.Flags().String("install-type", "", "")
	cmd.Flags().Bool("workstation", false, "")
	return cmd
}

func TestPreferencesFromFlags(t *testing.T) {
	cmd := newMatchFlags()
	cmd.Flags().Set("color", "black")
	cmd.Flags().Set("max-price", "600")
	cmd.Flags().Set("workstation", "false")

	prefs, err := preferencesFromFlags(cmd)
	if err != nil {
		t.Fatalf("preferencesFromFlags: %v", err)
	}
	if prefs.Color == nil || *prefs.Color != "black" {
		t.Fatalf("color = %v", prefs.Color)
	}
	if prefs.MaxPrice == nil || prefs.MaxPrice.StringFixed(2) != "600.00" {
		t.Fatalf("max price = %v", prefs.MaxPrice)
	}
	if prefs.Workstation == nil || *prefs.Workstation {
		t.Fatalf("workstation should be an explicit false, got %v", prefs.Workstation)
	}
	if prefs.BowlConfiguration != nil || prefs.InstallationType != nil {
		t.Fatalf("unset flags should stay nil: %+v", prefs)
	}
}

func TestPreferencesFromFlagsUnsetWorkstation(t *testing.T) {
	prefs, err := preferencesFromFlags(newMatchFlags())
	if err != nil {
		t.Fatalf("preferencesFromFlags: %v", err)
	}
	if prefs.Workstation != nil {
		t.Fatalf("workstation should be nil when the flag is not given")
	}
}

func TestPreferencesFromFlagsBadPrice(t *testing.T) {
	cmd := newMatchFlags()
	cmd.Flags().Set("max-price", "cheap")
	if _, err := preferencesFromFlags(cmd); err == nil {
		t.Fatal("expected an error for a non-numeric price")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"migrate": false, "seed": false, "match": false, "expire": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
