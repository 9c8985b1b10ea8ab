package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCmd_hasSubcommands(t *testing.T) {
	root := NewRootCmd("test")
	if root == nil {
		t.Fatal("NewRootCmd returned nil")
	}
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"doctor", "start", "stop", "status", "project", "agent", "reminder"} {
		if !names[want] {
			t.Errorf("expected subcommand %q", want)
		}
	}
}

func TestNewRootCmd_versionFlag(t *testing.T) {
	root := NewRootCmd("1.2.3")
	if root.Version != "1.2.3" {
		t.Errorf("Version: got %q", root.Version)
	}
	if NewRootCmd("").Version != "dev" {
		t.Error("empty version should fall back to dev")
	}
}

func TestNewRootCmd_hasHomeFlag(t *testing.T) {
	root := NewRootCmd("")
	if root.PersistentFlags().Lookup("home") == nil {
		t.Fatal("expected --home persistent flag")
	}
}

func TestStatus_notRunning(t *testing.T) {
	root := NewRootCmd("")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--home", t.TempDir(), "status"})
	if err := root.Execute(); err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(buf.String(), "not running") {
		t.Errorf("status output = %q, want mention of not running", buf.String())
	}
}

func TestProjectAddAndList(t *testing.T) {
	home := t.TempDir()

	root := NewRootCmd("")
	root.SetArgs([]string{"--home", home, "project", "add", "--name", "alpha"})
	if err := root.Execute(); err != nil {
		t.Fatalf("project add: %v", err)
	}

	root = NewRootCmd("")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--home", home, "project", "list"})
	if err := root.Execute(); err != nil {
		t.Fatalf("project list: %v", err)
	}
	if !strings.Contains(buf.String(), "alpha") {
		t.Errorf("project list output = %q, want alpha", buf.String())
	}
}

func TestAgentAdd_rejectsDirectorID(t *testing.T) {
	home := t.TempDir()

	root := NewRootCmd("")
	root.SetArgs([]string{"--home", home, "project", "add", "--name", "alpha"})
	if err := root.Execute(); err != nil {
		t.Fatalf("project add: %v", err)
	}

	root = NewRootCmd("")
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"--home", home, "agent", "add",
		"--project", "alpha", "--id", "human-director", "--role", "Backend Developer"})
	if err := root.Execute(); err == nil {
		t.Error("registering the director id should fail")
	}
}
