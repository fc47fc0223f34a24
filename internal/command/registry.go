package command

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/selfswitch/internal/logging"
)

// DecisionFailed marks an invocation aborted by a store or host error.
const DecisionFailed = "failed"

// Auditor receives one entry per dispatched invocation.
type Auditor interface {
	Record(entry logging.InvocationEntry) error
}

// #region registry

// Registry maps command names to commands and serializes their execution.
type Registry struct {
	mu       sync.Mutex
	commands map[string]Command
	audit    Auditor
	logger   zerolog.Logger
}

// NewRegistry returns an empty registry. audit may be nil.
func NewRegistry(audit Auditor, logger zerolog.Logger) *Registry {
	return &Registry{
		commands: make(map[string]Command),
		audit:    audit,
		logger:   logger,
	}
}

// Register adds a command. Names are case-insensitive and must be unique.
func (r *Registry) Register(cmd Command) error {
	name := strings.ToLower(strings.TrimSpace(cmd.Name()))
	if name == "" {
		return fmt.Errorf("command: empty command name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.commands[name]; dup {
		return fmt.Errorf("command: %q already registered", name)
	}
	r.commands[name] = cmd
	return nil
}

// Names lists registered commands in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.commands))
}

// #endregion registry

// #region dispatch

// Dispatch runs a command. Malformed invocations are not errors: they come
// back as a rejected Result with no writes, so authoring mistakes never halt
// the host. Unknown commands and store or host failures are returned as errors.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]string) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmd, ok := r.commands[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	invocationID := uuid.New().String()
	log := r.logger.With().Str("invocation", invocationID).Str("command", cmd.Name()).Logger()

	res, err := cmd.Run(ctx, args)
	res.InvocationID = invocationID
	res.Command = cmd.Name()

	switch {
	case err == nil:
		log.Info().Int("map", res.MapID).Int("writes", res.Writes()).Str("decision", res.Decision).Msg("command dispatched")
	case IsInvalid(err):
		res.Decision = logging.DecisionRejected
		res.Reason = err.Error()
		res.Updates = nil
		log.Warn().Err(err).Msg("invalid command ignored")
		err = nil
	default:
		res.Decision = DecisionFailed
		res.Reason = err.Error()
		res.Updates = nil
		log.Error().Err(err).Msg("command failed")
	}

	r.record(log, res, args)
	return res, err
}

func (r *Registry) record(log zerolog.Logger, res Result, args map[string]string) {
	if r.audit == nil {
		return
	}
	argsJSON, _ := json.Marshal(args)
	if len(args) == 0 {
		argsJSON = nil
	}
	err := r.audit.Record(logging.InvocationEntry{
		InvocationID: res.InvocationID,
		Command:      res.Command,
		ArgsJSON:     string(argsJSON),
		MapID:        res.MapID,
		Decision:     res.Decision,
		Reason:       res.Reason,
		Writes:       res.Writes(),
	})
	if err != nil {
		log.Error().Err(err).Msg("audit record failed")
	}
}

// DispatchLine parses a plugin-command line and dispatches it.
func (r *Registry) DispatchLine(ctx context.Context, line string) (Result, error) {
	name, args, err := ParseLine(line)
	if err != nil {
		return Result{}, err
	}
	return r.Dispatch(ctx, name, args)
}

// #endregion dispatch
