package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/pareto/internal/model"
)

// ProblemStore reads and writes problem definitions on disk. The format is
// chosen by file extension: .json, .yaml, or .yml.
type ProblemStore interface {
	Load(path string) (m.Problem, error)
	Save(problem m.Problem, path string) error
}

type fileProblemStore struct {
	validate *validator.Validate
}

// NewFileProblemStore constructs a ProblemStore backed by the local
// filesystem. Loaded problems are validated structurally, through the field
// tags, and semantically, through the aggregate's own checks, before they
// reach the caller.
func NewFileProblemStore() ProblemStore {
	return &fileProblemStore{validate: validator.New()}
}

func (s *fileProblemStore) Load(path string) (m.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return m.Problem{}, fmt.Errorf("reading %q: %w", path, err)
	}

	var problem m.Problem

	switch detectFormat(path) {
	case "json":
		if err := json.Unmarshal(data, &problem); err != nil {
			return m.Problem{}, fmt.Errorf("decoding %q: %w", path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &problem); err != nil {
			return m.Problem{}, fmt.Errorf("decoding %q: %w", path, err)
		}
	default:
		return m.Problem{}, fmt.Errorf("%w: unsupported problem file extension %q", m.ErrProblem, filepath.Ext(path))
	}

	if err := s.validate.Struct(problem); err != nil {
		return m.Problem{}, fmt.Errorf("%w: %v", m.ErrProblem, err)
	}

	if err := problem.Validate(); err != nil {
		return m.Problem{}, err
	}

	return problem, nil
}

func (s *fileProblemStore) Save(problem m.Problem, path string) error {
	var (
		data []byte
		err  error
	)

	switch detectFormat(path) {
	case "json":
		data, err = json.MarshalIndent(problem, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(problem)
	default:
		return fmt.Errorf("%w: unsupported problem file extension %q", m.ErrProblem, filepath.Ext(path))
	}

	if err != nil {
		return fmt.Errorf("encoding %q: %w", path, err)
	}

	return os.WriteFile(path, data, 0o600)
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}
