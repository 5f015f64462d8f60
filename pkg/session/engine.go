// Package session implements the interactive read-eval-print loop. One Engine
// owns the session state and handles a single input line to completion before
// it reads the next one.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/minhyannv/persona-chat/pkg/gateway"
	"github.com/minhyannv/persona-chat/pkg/logbook"
	loggerpkg "github.com/minhyannv/persona-chat/pkg/logger"
	"github.com/minhyannv/persona-chat/pkg/persona"
)

// Display is the user-facing surface. Diagnostics never go here.
type Display interface {
	Render(response, persona string)
	Println(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Prompt(persona string)
}

// Recorder persists completed turns. Record must not fail the session.
type Recorder interface {
	Record(entry logbook.Entry)
}

// Phase is the engine's position in its state machine.
type Phase int

const (
	Idle Phase = iota
	Dispatching
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dispatching:
		return "dispatching"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the mutable part of a session.
type State struct {
	ActivePersona string
	MockEnabled   bool
}

// Settings are the static parts of a session taken from config.
type Settings struct {
	ExitCommands []string
	MockEnabled  bool
	Verbose      bool
}

// Engine runs one interactive session.
type Engine struct {
	registry *persona.Registry
	gateway  gateway.Gateway
	mock     gateway.Gateway
	display  Display
	recorder Recorder
	logger   loggerpkg.Logger
	now      func() time.Time

	exits     map[string]bool
	exitList  []string
	sessionID string
	verbose   bool

	state State
	phase Phase
}

// New builds an Engine starting on the registry's default persona.
func New(registry *persona.Registry, gw gateway.Gateway, display Display, settings Settings, opts ...Option) (*Engine, error) {
	if registry == nil {
		return nil, errors.New("persona registry is required")
	}
	if gw == nil {
		return nil, errors.New("gateway is required")
	}
	if display == nil {
		return nil, errors.New("display is required")
	}

	deps := engineDeps{
		logger:   loggerpkg.NopLogger{},
		recorder: nopRecorder{},
		mock:     gateway.Mock{},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}
	if deps.sessionID == "" {
		deps.sessionID = uuid.NewString()
	}

	exits := make(map[string]bool, len(settings.ExitCommands))
	var exitList []string
	for _, token := range settings.ExitCommands {
		token = strings.ToLower(strings.TrimSpace(token))
		if token != "" && !exits[token] {
			exits[token] = true
			exitList = append(exitList, token)
		}
	}
	if len(exits) == 0 {
		return nil, errors.New("at least one exit command is required")
	}

	return &Engine{
		registry:  registry,
		gateway:   gw,
		mock:      deps.mock,
		display:   display,
		recorder:  deps.recorder,
		logger:    loggerpkg.OrNop(deps.logger),
		now:       deps.now,
		exits:     exits,
		exitList:  exitList,
		sessionID: deps.sessionID,
		verbose:   settings.Verbose,
		state: State{
			ActivePersona: registry.Default(),
			MockEnabled:   settings.MockEnabled,
		},
		phase: Idle,
	}, nil
}

// State returns a copy of the current session state.
func (e *Engine) State() State { return e.state }

// Phase returns the current state-machine phase.
func (e *Engine) Phase() Phase { return e.phase }

// SessionID identifies this session in logs.
func (e *Engine) SessionID() string { return e.sessionID }

type inputLine struct {
	text string
	err  error
}

// readLines feeds lines until in is exhausted or stop is closed.
func readLines(in io.Reader, lines chan<- inputLine, stop <-chan struct{}) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- inputLine{text: scanner.Text()}:
		case <-stop:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case lines <- inputLine{err: err}:
		case <-stop:
		}
	}
}

// Run reads lines from in until an exit command, end of input or ctx
// cancellation. Every ending path prints the farewell and closes in when it
// is an io.Closer. Only read errors are returned.
func (e *Engine) Run(ctx context.Context, in io.Reader) error {
	if in == nil {
		return errors.New("input reader is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	lines := make(chan inputLine)
	stop := make(chan struct{})
	go readLines(in, lines, stop)
	defer func() {
		close(stop)
		if c, ok := in.(io.Closer); ok {
			_ = c.Close()
		}
	}()

	e.logger.Info("session start", map[string]any{
		"session": e.sessionID,
		"persona": e.state.ActivePersona,
		"mock":    e.state.MockEnabled,
	})
	e.printWelcome()

	for {
		e.phase = Idle
		e.display.Prompt(e.state.ActivePersona)

		select {
		case <-ctx.Done():
			e.terminate("interrupt")
			return nil
		case line, ok := <-lines:
			if !ok {
				e.terminate("end of input")
				return nil
			}
			if line.err != nil {
				e.phase = Terminated
				return fmt.Errorf("read input: %w", line.err)
			}

			e.phase = Dispatching
			exit, err := e.dispatch(ctx, line.text)
			if ctx.Err() != nil {
				e.terminate("interrupt")
				return nil
			}
			if err != nil {
				e.reportTurnError(err)
			}
			if exit {
				e.terminate("exit command")
				return nil
			}
		}
	}
}

func (e *Engine) terminate(reason string) {
	e.display.Println("")
	e.display.Info("Goodbye!")
	e.phase = Terminated
	e.logger.Info("session end", map[string]any{"session": e.sessionID, "reason": reason})
}

func (e *Engine) reportTurnError(err error) {
	e.display.Error(err.Error())
	e.logger.Error("turn failed", map[string]any{
		"session": e.sessionID,
		"persona": e.state.ActivePersona,
		"error":   err,
	})
}

func (e *Engine) debugf(format string, args ...any) {
	loggerpkg.Debugf(e.verbose, e.logger, format, args...)
}

// dispatch classifies one raw line and runs it. exit reports that the
// session must end; err is a failed query turn.
func (e *Engine) dispatch(ctx context.Context, raw string) (exit bool, err error) {
	line := strings.TrimSpace(raw)
	lower := strings.ToLower(line)

	switch {
	case line == "":
		e.display.Info("Type a question and press Enter, or /help for commands.")
		return false, nil

	case line != "?" && !hasAlphanumeric(line):
		e.display.Warn("input has no letters or digits; type /help for commands")
		return false, nil
	}

	if name, ok := strings.CutPrefix(line, "/"); ok {
		if p, found := e.registry.Lookup(name); found {
			e.switchPersona(p)
			return false, nil
		}
	}

	switch {
	case lower == "/persona" || strings.HasPrefix(lower, "/persona "):
		e.handlePersonaCommand(line)
		return false, nil

	case line == "/personas":
		e.listPersonas()
		return false, nil

	case line == "/help" || line == "help" || line == "?":
		e.printHelp()
		return false, nil

	case lower == "/mock" || strings.HasPrefix(lower, "/mock "):
		e.handleMock(lower)
		return false, nil

	case e.exits[lower]:
		e.debugf("exit token %q", line)
		return true, nil
	}

	return false, e.ask(ctx, line)
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func (e *Engine) switchPersona(p persona.Persona) {
	previous := e.state.ActivePersona
	e.state.ActivePersona = p.Name
	e.debugf("persona switch %s -> %s", previous, p.Name)
	e.display.Info(fmt.Sprintf("Switched to persona %q.", p.Name))
	if msg := strings.TrimSpace(p.WelcomeMessage); msg != "" {
		e.display.Println(msg)
	}
	e.display.Println("")
}

func (e *Engine) handlePersonaCommand(line string) {
	args := strings.Fields(line)[1:]
	if len(args) != 1 {
		e.display.Warn("usage: /persona <name>")
		return
	}
	name := args[0]
	p, ok := e.registry.Lookup(name)
	if !ok {
		p, ok = e.registry.Lookup(strings.ToLower(name))
	}
	if !ok {
		e.display.Error(fmt.Sprintf("unknown persona %q; type /personas to list them", name))
		return
	}
	e.switchPersona(p)
}

func (e *Engine) listPersonas() {
	e.display.Println("Personas:")
	for _, p := range e.registry.All() {
		marker := " "
		if p.Name == e.state.ActivePersona {
			marker = "*"
		}
		e.display.Println(fmt.Sprintf("  %s %-10s %s", marker, p.Name, p.Summary()))
	}
	e.display.Println("")
}

func (e *Engine) handleMock(lower string) {
	args := strings.Fields(strings.TrimPrefix(lower, "/mock"))
	switch {
	case len(args) == 0:
		e.display.Info(fmt.Sprintf("Mock mode is %s.", onOff(e.state.MockEnabled)))
	case len(args) == 1 && (args[0] == "on" || args[0] == "off"):
		e.state.MockEnabled = args[0] == "on"
		e.debugf("mock mode %s", args[0])
		if e.state.MockEnabled {
			e.display.Info("Mock mode enabled.")
		} else {
			e.display.Info("Mock mode disabled.")
		}
	default:
		e.display.Warn("usage: /mock [on|off]")
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// ask runs one query turn: gateway, then display, then log.
func (e *Engine) ask(ctx context.Context, text string) error {
	p, err := e.registry.Get(e.state.ActivePersona)
	if err != nil {
		return err
	}

	gw := e.gateway
	if e.state.MockEnabled {
		gw = e.mock
	}
	e.debugf("query persona=%s mock=%v bytes=%d", p.Name, e.state.MockEnabled, len(text))

	reply, err := gw.Complete(ctx, text, p.SystemPrompt)
	if err != nil {
		return fmt.Errorf("ask %s: %w", p.Name, err)
	}

	e.display.Render(reply, p.Name)
	e.recorder.Record(logbook.Entry{
		SessionID: e.sessionID,
		Persona:   p.Name,
		Timestamp: e.now(),
		Input:     text,
		Response:  reply,
	})
	return nil
}

func (e *Engine) printWelcome() {
	e.display.Println("=== persona-chat ===")
	e.display.Println(fmt.Sprintf("Active persona: %s. Type /help for commands.", e.state.ActivePersona))
	if e.state.MockEnabled {
		e.display.Warn("mock mode is on; no provider will be called")
	}
	e.display.Println("")
}

func (e *Engine) printHelp() {
	e.display.Println("Commands:")
	e.display.Println("  /<name>          Switch to persona <name>")
	e.display.Println("  /persona <name>  Switch to persona <name>")
	e.display.Println("  /personas        List personas")
	e.display.Println("  /mock [on|off]   Show or toggle mock mode")
	e.display.Println("  /help, help, ?   Show this help message")
	e.display.Println("  " + strings.Join(e.exitList, ", ") + "  Exit the program")
	e.display.Println("Anything else is sent to the active persona.")
	e.display.Println("")
}
