// Package actions routes utterances to allow-listed host commands. It owns
// the command table, the derived aliases, the feature-toggled built-ins
// (shutdown, inventory), and the confirmation flow for teaching new
// commands. Everything outside this package sees only Handle/Hints/
// CancelPending, so the allow-list can never be bypassed.
package actions

import (
	"log/slog"
	"os/exec"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/Ranojay1/LocalAssistant/pkg/config"
	"github.com/Ranojay1/LocalAssistant/pkg/domain"
)

// Executor is the surface the pipeline consumes.
type Executor interface {
	// Handle attempts to match text against the allow-list and any pending
	// confirmation. The result is tagged; ActionNoMatch means the caller
	// should fall through to classification or generation.
	Handle(text string) domain.ActionResult

	// Hints returns the current allow-listed intent names, aliases, and
	// enabled feature triggers, sorted and deduplicated. Read fresh every
	// turn; callers must never cache or hard-code intent names.
	Hints() []string

	// CancelPending clears any outstanding confirmation.
	CancelPending()
}

// Launcher starts a detached host command. Injected so tests never spawn
// processes.
type Launcher func(command string) error

// Router implements Executor over a command Table.
type Router struct {
	cfg       config.ActionsConfig
	table     *Table
	launch    Launcher
	inventory func() string

	pending *pendingCommand
}

// pendingCommand is a proposed allow-list addition awaiting confirmation.
type pendingCommand struct {
	intent  string
	command string
}

var _ Executor = (*Router)(nil)

// NewRouter builds a router over the given table. inventory supplies the
// host summary for the "qué lleva mi pc" built-in.
func NewRouter(cfg config.ActionsConfig, table *Table, inventory func() string) *Router {
	return &Router{
		cfg:       cfg,
		table:     table,
		launch:    launchDetached,
		inventory: inventory,
	}
}

var (
	affirmatives = []string{"si", "sí", "vale", "ok", "okay", "claro", "afirma"}
	negatives    = []string{"no", "nel", "nunca", "cancela", "cancelar"}

	urlPattern   = regexp.MustCompile(`https?://\S+`)
	teachPattern = regexp.MustCompile(`^aprende (?:el comando )?(.+?) (?:como|con|ejecutando) (.+)$`)
)

// Handle matches text against the built-ins, the command table, the alias
// set, the teaching grammar, and finally any pending confirmation, in that
// order. First match wins.
func (r *Router) Handle(text string) domain.ActionResult {
	low := strings.ToLower(strings.TrimSpace(text))
	if low == "" {
		return domain.NoMatch
	}

	if r.cfg.EnableShutdown && strings.Contains(low, "apagate") {
		return r.shutdown()
	}
	if r.cfg.EnableInventory && (strings.Contains(low, "que lleva mi pc") || strings.Contains(low, "que tiene mi pc") ||
		strings.Contains(low, "qué lleva mi pc") || strings.Contains(low, "qué tiene mi pc")) {
		return executed("Resumen del PC:\n" + r.inventory())
	}

	// A URL anywhere in the utterance opens in the default browser.
	if url := urlPattern.FindString(low); url != "" {
		return r.run(openURLCommand(url), url)
	}

	for _, intent := range r.table.Intents() {
		if strings.Contains(low, intent) {
			command, _ := r.table.Command(intent)
			return r.run(command, intent)
		}
	}
	for _, pair := range r.table.Aliases() {
		alias, intent := pair[0], pair[1]
		if strings.Contains(low, alias) {
			if command, ok := r.table.Command(intent); ok {
				return r.run(command, alias)
			}
		}
	}

	if m := teachPattern.FindStringSubmatch(low); m != nil {
		r.pending = &pendingCommand{intent: strings.TrimSpace(m[1]), command: strings.TrimSpace(m[2])}
		return domain.ActionResult{
			Kind:    domain.ActionNeedsConfirmation,
			Reply:   "¿Guardo el comando " + r.pending.intent + "? Confirma con sí o no.",
			Intent:  r.pending.intent,
			Command: r.pending.command,
		}
	}

	if r.pending != nil {
		return r.resolvePending(low)
	}
	return domain.NoMatch
}

func (r *Router) resolvePending(low string) domain.ActionResult {
	if containsAny(low, affirmatives) {
		p := r.pending
		r.pending = nil
		if err := r.table.Put(p.intent, p.command); err != nil {
			slog.Error("failed to persist taught command", "intent", p.intent, "error", err)
			return executed("No pude guardar el comando.")
		}
		slog.Info("command taught", "intent", p.intent)
		return r.run(p.command, p.intent)
	}
	if containsAny(low, negatives) {
		r.pending = nil
		return executed("No guardo el comando.")
	}
	return domain.ActionResult{
		Kind:    domain.ActionNeedsConfirmation,
		Reply:   "Confirma con sí o no.",
		Intent:  r.pending.intent,
		Command: r.pending.command,
	}
}

// Hints returns feature triggers, command intents, and aliases.
func (r *Router) Hints() []string {
	set := map[string]bool{}
	if r.cfg.EnableShutdown {
		set["apagate"] = true
	}
	if r.cfg.EnableInventory {
		set["que lleva mi pc"] = true
	}
	for _, intent := range r.table.Intents() {
		set[intent] = true
	}
	for _, pair := range r.table.Aliases() {
		set[pair[0]] = true
	}

	hints := make([]string, 0, len(set))
	for h := range set {
		hints = append(hints, h)
	}
	sort.Strings(hints)
	return hints
}

// CancelPending clears any outstanding confirmation.
func (r *Router) CancelPending() {
	r.pending = nil
}

func (r *Router) run(command, label string) domain.ActionResult {
	if err := r.launch(command); err != nil {
		slog.Error("command launch failed", "label", label, "error", err)
		return executed("No pude ejecutar el comando autorizado.")
	}
	if label != "" {
		return executed("Se ha abierto " + label)
	}
	return executed("Ejecutando: " + command)
}

func (r *Router) shutdown() domain.ActionResult {
	if err := r.launch(shutdownCommand()); err != nil {
		slog.Error("shutdown failed", "error", err)
		return executed("No pude apagar el equipo.")
	}
	return executed("Apagando el equipo en 3 segundos.")
}

func executed(reply string) domain.ActionResult {
	return domain.ActionResult{Kind: domain.ActionExecuted, Reply: reply}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// launchDetached starts a shell command without waiting for it.
func launchDetached(command string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", command)
	} else {
		cmd = exec.Command("sh", "-c", command)
	}
	return cmd.Start()
}

func openURLCommand(url string) string {
	switch runtime.GOOS {
	case "windows":
		return `start "" "` + url + `"`
	case "darwin":
		return `open "` + url + `"`
	default:
		return `xdg-open "` + url + `"`
	}
}

func shutdownCommand() string {
	if runtime.GOOS == "windows" {
		return "shutdown /s /t 3"
	}
	return "shutdown -h +0"
}
