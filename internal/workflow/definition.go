package workflow

import (
	"fmt"
	"time"

	berrors "github.com/badie/bdev/internal/errors"

	"gopkg.in/yaml.v3"
)

// Definition is a parsed workflow document.
type Definition struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
	Steps       []Step            `yaml:"steps"`
	OnSuccess   string            `yaml:"on_success,omitempty"`
	OnFailure   string            `yaml:"on_failure,omitempty"`
}

// Step is one command of a workflow.
type Step struct {
	Name            string            `yaml:"name,omitempty"`
	Run             string            `yaml:"run"`
	ContinueOnError bool              `yaml:"continue_on_error,omitempty"`
	Env             map[string]string `yaml:"env,omitempty"`
	If              string            `yaml:"if,omitempty"`
	Cwd             string            `yaml:"cwd,omitempty"`
	Timeout         string            `yaml:"timeout,omitempty"`
}

// stepFields has the same fields as Step without its methods, so decoding
// into it does not recurse into UnmarshalYAML.
type stepFields Step

// UnmarshalYAML accepts either a mapping or a bare string. A bare string is
// both the name and the command line.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var line string
		if err := value.Decode(&line); err != nil {
			return err
		}
		*s = Step{Name: line, Run: line}
		return nil
	}

	var fields stepFields
	if err := value.Decode(&fields); err != nil {
		return err
	}
	*s = Step(fields)
	if s.Name == "" {
		s.Name = s.Run
	}
	return nil
}

// MarshalYAML writes steps that only carry a command back in shorthand form.
func (s Step) MarshalYAML() (any, error) {
	if s.Name == s.Run && !s.ContinueOnError && len(s.Env) == 0 && s.If == "" && s.Cwd == "" && s.Timeout == "" {
		return s.Run, nil
	}
	return stepFields(s), nil
}

// StepTimeout parses the step timeout. A zero duration means none was set.
func (s Step) StepTimeout() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", s.Timeout)
	}
	return d, nil
}

// Parse decodes a workflow document. fallbackName is used when the document
// has no name field.
func Parse(data []byte, fallbackName string) (*Definition, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", berrors.ErrDefinitionParse, err)
	}
	if isEmptyDocument(&root) {
		return nil, fmt.Errorf("%w: empty document", berrors.ErrDefinitionParse)
	}

	var def Definition
	if err := root.Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: %v", berrors.ErrDefinitionParse, err)
	}

	if def.Name == "" {
		def.Name = fallbackName
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// isEmptyDocument reports a document with no content or only a null value.
func isEmptyDocument(root *yaml.Node) bool {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return true
	}
	node := root.Content[0]
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

// Validate checks that every step has a command and a usable timeout.
func (d *Definition) Validate() error {
	for i, step := range d.Steps {
		if step.Run == "" {
			return fmt.Errorf("%w: step %d (%q) has no run command", berrors.ErrDefinitionParse, i+1, step.Name)
		}
		if _, err := step.StepTimeout(); err != nil {
			return fmt.Errorf("%w: step %d (%q): %v", berrors.ErrDefinitionParse, i+1, step.Name, err)
		}
	}
	return nil
}
