// Package policy loads per-project orchestration settings from the home directory.
package policy

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultDelegateRole receives forwarded director reading assignments when no override is set.
const DefaultDelegateRole = "Lead Developer"

// Policy answers out-of-band configuration questions for the orchestrator.
type Policy interface {
	ForwardingEnabled(projectID string) bool
	DelegateRole(projectID string) string
}

type projectPolicy struct {
	ForwardToDelegate bool   `yaml:"forward_to_delegate"`
	DelegateRole      string `yaml:"delegate_role"`
}

type policyFile struct {
	Defaults projectPolicy            `yaml:"defaults"`
	Projects map[string]projectPolicy `yaml:"projects"`
}

// FilePolicy reads <home>/policy.yaml once and serves lookups from memory. A missing file means
// all defaults (forwarding off). Reload re-reads the file.
type FilePolicy struct {
	Home string

	mu     sync.RWMutex
	loaded bool
	file   policyFile
}

// NewFilePolicy loads policy from home. A missing policy file is not an error.
func NewFilePolicy(home string) (*FilePolicy, error) {
	p := &FilePolicy{Home: home}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload re-reads policy.yaml from disk.
func (p *FilePolicy) Reload() error {
	path := filepath.Join(p.Home, "policy.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.mu.Lock()
			p.file = policyFile{}
			p.loaded = true
			p.mu.Unlock()
			return nil
		}
		return err
	}
	var f policyFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return err
	}
	p.mu.Lock()
	p.file = f
	p.loaded = true
	p.mu.Unlock()
	return nil
}

func (p *FilePolicy) lookup(projectID string) projectPolicy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if pp, ok := p.file.Projects[projectID]; ok {
		return pp
	}
	return p.file.Defaults
}

func (p *FilePolicy) ForwardingEnabled(projectID string) bool {
	return p.lookup(projectID).ForwardToDelegate
}

func (p *FilePolicy) DelegateRole(projectID string) string {
	if role := p.lookup(projectID).DelegateRole; role != "" {
		return role
	}
	return DefaultDelegateRole
}

// Static is a fixed policy, used in tests and demo mode.
type Static struct {
	Forward  bool
	Delegate string
}

func (s Static) ForwardingEnabled(string) bool { return s.Forward }

func (s Static) DelegateRole(string) string {
	if s.Delegate != "" {
		return s.Delegate
	}
	return DefaultDelegateRole
}
