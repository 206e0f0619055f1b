// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

var (
	// ErrYamlUnmarshal is returned when a plan is not valid YAML or has unknown fields.
	ErrYamlUnmarshal = errors.New("failed to unmarshal plan YAML")
	// ErrInvalidPlan is returned when a plan has no steps.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrInvalidStep is returned when a step is missing fields or has conflicting ones.
	ErrInvalidStep = errors.New("invalid step")
)

// Plan is a named list of steps run one after another.
type Plan struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is a unit of work run with the working directory switched to Dir.
type Step struct {
	// Name labels the step in logs and results. Defaults to "step <n>".
	Name string `yaml:"name,omitempty"`
	// Dir is the directory to switch to. Relative paths are resolved against
	// the working directory when the step starts.
	Dir string `yaml:"dir"`
	// Source is the directory restored after the step. Defaults to the working
	// directory when the step starts.
	Source string `yaml:"source,omitempty"`
	// Command is an executable and its arguments.
	Command []string `yaml:"command,omitempty"`
	// Shell is a command line run by the system shell.
	Shell string `yaml:"shell,omitempty"`
	// Env holds extra environment variables for Command or Shell.
	Env map[string]string `yaml:"env,omitempty"`
	// List writes the names of the entries of Dir before any command runs.
	List bool `yaml:"list,omitempty"`
	// ContinueOnError lets the plan go on when this step fails.
	ContinueOnError bool `yaml:"continue_on_error,omitempty"`
}

// HasCommand reports whether the step runs a command.
func (s Step) HasCommand() bool {
	return len(s.Command) > 0 || s.Shell != ""
}

// Parse decodes and validates a YAML plan.
func Parse(data []byte) (*Plan, error) {
	p := new(Plan)

	if err := yaml.UnmarshalWithOptions(data, p, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.Join(ErrYamlUnmarshal, err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks the plan and fills in default step names.
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: plan %q has no steps", ErrInvalidPlan, p.Name)
	}

	for i := range p.Steps {
		s := &p.Steps[i]

		if s.Name == "" {
			s.Name = fmt.Sprintf("step %d", i+1)
		}

		switch {
		case s.Dir == "":
			return fmt.Errorf("%w: %s: dir is required", ErrInvalidStep, s.Name)
		case len(s.Command) > 0 && s.Shell != "":
			return fmt.Errorf("%w: %s: command and shell are mutually exclusive", ErrInvalidStep, s.Name)
		case !s.HasCommand() && !s.List:
			return fmt.Errorf("%w: %s: one of command, shell or list is required", ErrInvalidStep, s.Name)
		}
	}

	return nil
}
