package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/pareto/internal/domain"
	m "github.com/mouse-blink/pareto/internal/model"
)

// recordingUI captures the artifacts handed to the UI instead of printing.
type recordingUI struct {
	problems  []m.Problem
	solutions [][]m.SolverResults
	archives  [][]m.ArchiveEntry
}

func (r *recordingUI) DisplayProblem(problem m.Problem) error {
	r.problems = append(r.problems, problem)
	return nil
}

func (r *recordingUI) DisplaySolutions(_ m.Problem, results []m.SolverResults) error {
	r.solutions = append(r.solutions, results)
	return nil
}

func (r *recordingUI) DisplayArchive(_ m.Problem, entries []m.ArchiveEntry) error {
	r.archives = append(r.archives, entries)
	return nil
}

// withProblemFile saves the problem to a temporary file and points the
// configuration at it for the duration of one test.
func withProblemFile(t *testing.T, problem m.Problem) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "problem.json")
	require.NoError(t, problemStore.Save(problem, path))

	viper.Set("problem", path)
	t.Cleanup(func() { viper.Set("problem", nil) })
}

func swapUI(t *testing.T) *recordingUI {
	t.Helper()

	recorder := &recordingUI{}
	original := ui
	ui = recorder
	t.Cleanup(func() { ui = original })

	return recorder
}

func TestViewCmd_DisplaysTheProblem(t *testing.T) {
	withProblemFile(t, domain.BinhAndKorn(false, false))
	recorder := swapUI(t)

	cmd := newRootCmd()
	cmd.AddCommand(newViewCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"view"})
	require.NoError(t, cmd.Execute())

	require.Len(t, recorder.problems, 1)
	require.Equal(t, "The Binh and Korn function", recorder.problems[0].Name)
	require.Len(t, recorder.problems[0].Objectives, 2)
}

func TestViewCmd_UnknownScenarioFails(t *testing.T) {
	withProblemFile(t, domain.BinhAndKorn(false, false))
	swapUI(t)

	t.Cleanup(func() { viewScenarioFlag = "" })

	cmd := newRootCmd()
	cmd.AddCommand(newViewCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"view", "--scenario", "nope"})
	require.ErrorIs(t, cmd.Execute(), m.ErrProblem)
}

func TestViewCmd_MissingProblemFlagFails(t *testing.T) {
	viper.Set("problem", nil)
	swapUI(t)

	cmd := newRootCmd()
	cmd.AddCommand(newViewCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"view"})
	require.ErrorIs(t, cmd.Execute(), m.ErrProblem)
}
