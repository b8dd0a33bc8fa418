// Package listing implements the descriptive listing collaborator named in
// spec §6: registration emits a record to a process-wide, replaceable
// sink that has no effect on resolution. It exists purely for tooling that
// wants to enumerate what a registry knows how to build.
package listing

import (
	"sync"

	"github.com/fatih/structs"

	"github.com/bittoy/objectgraph/graphtypes"
)

// Record is one descriptive entry emitted by Registry.Register.
type Record struct {
	Interface   string
	ClassTag    string
	Description string
	ArgSpecs    []graphtypes.ArgSpec
	IsDefault   bool

	// Fields is the same ArgSpecs, flattened to plain maps via
	// github.com/fatih/structs, for sinks (the MQTT one included) that
	// want to re-encode the listing without importing graphtypes.
	Fields []map[string]any
}

// NewRecord builds a Record from its typed fields, computing Fields via
// structs.Map so sinks can re-serialize without caring about the ArgSpec
// struct shape.
func NewRecord(iface, classTag, description string, argSpecs []graphtypes.ArgSpec, isDefault bool) Record {
	fields := make([]map[string]any, len(argSpecs))
	for i, spec := range argSpecs {
		fields[i] = structs.Map(spec)
	}
	return Record{
		Interface:   iface,
		ClassTag:    classTag,
		Description: description,
		ArgSpecs:    argSpecs,
		IsDefault:   isDefault,
		Fields:      fields,
	}
}

// Sink receives one Record per successful registration. Implementations
// must not block registration for long; the default sink just appends to
// an in-memory slice.
type Sink interface {
	Emit(Record)
}

// MemorySink is the default listing sink: it keeps every record it has
// seen, in registration order, for a descriptive listing command to read
// back later.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Emit(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// Records returns a snapshot of everything emitted so far, in order.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// defaultSink is the process-wide sink that registry.New hands to each new
// Registry. SetDefault replaces it for registries created afterwards; a
// Registry that already exists (registry.Default included) keeps its sink
// until Registry.SetSink changes it.
var (
	defaultMu   sync.RWMutex
	defaultSink Sink = NewMemorySink()
)

// Default returns the currently installed default sink.
func Default() Sink {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultSink
}

// SetDefault replaces the process-wide default sink, returning the
// previous one so callers (typically tests) can restore it.
func SetDefault(s Sink) Sink {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultSink
	defaultSink = s
	return prev
}
