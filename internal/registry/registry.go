package registry

import (
	"errors"
	"fmt"

	"github.com/tabwatch/tabwatch/internal/models"
)

var (
	// ErrDuplicateMetric is returned when a definition name is already registered.
	ErrDuplicateMetric = errors.New("metric already registered")
	// ErrUnknownMetric is returned when resolving a name that was never registered.
	ErrUnknownMetric = errors.New("unknown metric")
	// ErrInvalidDefinition is returned when a definition fails validation.
	ErrInvalidDefinition = errors.New("invalid metric definition")
)

// Registry holds the metric definitions for the process lifetime. It is
// populated once at startup and read-only afterward; evaluation never
// mutates it.
type Registry struct {
	defs map[string]models.MetricDefinition
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{defs: make(map[string]models.MetricDefinition)}
}

// NewFromDefinitions creates a Registry pre-populated with defs,
// failing on the first invalid or duplicate definition.
func NewFromDefinitions(defs []models.MetricDefinition) (*Registry, error) {
	r := New()
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register validates the definition and adds it to the registry.
func (r *Registry) Register(def models.MetricDefinition) error {
	if err := validate(def); err != nil {
		return err
	}
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateMetric, def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

// Resolve returns the definition registered under name.
func (r *Registry) Resolve(name string) (models.MetricDefinition, error) {
	def, ok := r.defs[name]
	if !ok {
		return models.MetricDefinition{}, fmt.Errorf("%w: %s", ErrUnknownMetric, name)
	}
	return def, nil
}

func validate(def models.MetricDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if def.Source == "" {
		return fmt.Errorf("%w: %s: source is required", ErrInvalidDefinition, def.Name)
	}
	switch def.Method {
	case models.MethodAverage, models.MethodSum, models.MethodCount, models.MethodMin, models.MethodMax:
	case "":
		return fmt.Errorf("%w: %s: method is required", ErrInvalidDefinition, def.Name)
	default:
		return fmt.Errorf("%w: %s: unsupported method %q", ErrInvalidDefinition, def.Name, def.Method)
	}
	if def.Expression == "" {
		return fmt.Errorf("%w: %s: expression is required", ErrInvalidDefinition, def.Name)
	}
	if def.TimestampField == "" {
		return fmt.Errorf("%w: %s: timestamp_field is required", ErrInvalidDefinition, def.Name)
	}
	if len(def.Grains) == 0 {
		return fmt.Errorf("%w: %s: at least one grain is required", ErrInvalidDefinition, def.Name)
	}
	for _, g := range def.Grains {
		switch g {
		case models.GrainDay, models.GrainWeek, models.GrainMonth:
		default:
			return fmt.Errorf("%w: %s: unsupported grain %q", ErrInvalidDefinition, def.Name, g)
		}
	}
	return nil
}
