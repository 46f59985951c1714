package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Table is the user-defined command allow-list, backed by a JSON file that
// maps spoken intent ("abre discord") to shell command. The file may be
// edited while the assistant runs; Watch reloads it so hints stay live.
type Table struct {
	path string

	mu       sync.RWMutex
	commands map[string]string
	aliases  map[string]string // "discord" -> "abre discord"
}

// LoadTable reads the command table at path, seeding the file from defaults
// when it does not exist yet.
func LoadTable(path string, defaults map[string]string) (*Table, error) {
	t := &Table{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		t.setCommands(defaults)
		if len(defaults) > 0 {
			if err := t.persist(); err != nil {
				return nil, err
			}
		}
		return t, nil
	case err != nil:
		return nil, fmt.Errorf("read commands %s: %w", path, err)
	}

	var commands map[string]string
	if err := json.Unmarshal(raw, &commands); err != nil {
		return nil, fmt.Errorf("parse commands %s: %w", path, err)
	}
	t.setCommands(commands)
	return t, nil
}

func (t *Table) setCommands(commands map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.commands = make(map[string]string, len(commands))
	t.aliases = make(map[string]string, len(commands))
	for intent, command := range commands {
		t.commands[intent] = command
		// "abre discord" is also triggerable as just "discord".
		if alias, ok := strings.CutPrefix(intent, "abre "); ok {
			if alias = strings.TrimSpace(alias); alias != "" {
				t.aliases[alias] = intent
			}
		}
	}
}

// Watch reloads the table whenever the backing file changes, until ctx ends.
func (t *Table) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch commands: %w", err)
	}
	if err := watcher.Add(t.path); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", t.path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := t.reload(); err != nil {
					slog.Error("command table reload failed", "error", err)
					continue
				}
				slog.Info("command table reloaded", "commands", t.Len())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("command table watcher", "error", err)
			}
		}
	}()
	return nil
}

func (t *Table) reload() error {
	raw, err := os.ReadFile(t.path)
	if err != nil {
		return err
	}
	var commands map[string]string
	if err := json.Unmarshal(raw, &commands); err != nil {
		return err
	}
	t.setCommands(commands)
	return nil
}

// Command returns the shell command for an exact intent.
func (t *Table) Command(intent string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cmd, ok := t.commands[intent]
	return cmd, ok
}

// Intents returns the intent names in sorted order.
func (t *Table) Intents() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	intents := make([]string, 0, len(t.commands))
	for intent := range t.commands {
		intents = append(intents, intent)
	}
	sort.Strings(intents)
	return intents
}

// Aliases returns alias -> intent pairs with aliases in sorted order.
func (t *Table) Aliases() [][2]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, 0, len(t.aliases))
	for alias := range t.aliases {
		keys = append(keys, alias)
	}
	sort.Strings(keys)
	out := make([][2]string, 0, len(keys))
	for _, alias := range keys {
		out = append(out, [2]string{alias, t.aliases[alias]})
	}
	return out
}

// Len returns the number of commands.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.commands)
}

// Put adds or replaces a command and persists the table.
func (t *Table) Put(intent, command string) error {
	t.mu.Lock()
	t.commands[intent] = command
	if alias, ok := strings.CutPrefix(intent, "abre "); ok {
		if alias = strings.TrimSpace(alias); alias != "" {
			t.aliases[alias] = intent
		}
	}
	t.mu.Unlock()
	return t.persist()
}

func (t *Table) persist() error {
	t.mu.RLock()
	raw, err := json.MarshalIndent(t.commands, "", "  ")
	t.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode commands: %w", err)
	}
	if err := os.WriteFile(t.path, raw, 0644); err != nil {
		return fmt.Errorf("persist commands: %w", err)
	}
	return nil
}
