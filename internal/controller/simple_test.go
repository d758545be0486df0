package controller

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	m "github.com/mouse-blink/pareto/internal/model"
)

func displayProblem() m.Problem {
	return m.Problem{
		Name:        "test problem",
		Description: "a fixture",
		Variables: []m.Variable{
			{Name: "x_1", Symbol: "x_1", Type: m.VariableReal, LowerBound: 0, UpperBound: 5},
			{Name: "x_2", Symbol: "x_2", Type: m.VariableInteger, LowerBound: -3, UpperBound: 3},
		},
		Objectives: []m.Objective{
			{Name: "f_1", Symbol: "f_1", Func: m.MustParse("x_1"), Ideal: m.Float64Ptr(0), Nadir: m.Float64Ptr(140)},
			{Name: "f_2", Symbol: "f_2", Func: m.MustParse("x_2"), Maximize: true, Ideal: m.Float64Ptr(10)},
		},
	}
}

func newTestUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd), &buf
}

func TestSimpleUI_DisplayProblem_PrintsTables(t *testing.T) {
	ui, buf := newTestUI()

	if err := ui.DisplayProblem(displayProblem()); err != nil {
		t.Fatalf("DisplayProblem() error = %v", err)
	}

	output := buf.String()

	for _, want := range []string{
		"test problem",
		"a fixture",
		"x_1",
		"x_2",
		"minimize",
		"maximize",
		"140",
		// Missing nadir renders as a dash.
		"-",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestSimpleUI_DisplaySolutions_PrintsRows(t *testing.T) {
	ui, buf := newTestUI()

	results := []m.SolverResults{
		{Success: true, OptimalObjectives: map[string]float64{"f_1": 34, "f_2": 18.5}},
		{Success: false, Message: "diverged"},
	}

	if err := ui.DisplaySolutions(displayProblem(), results); err != nil {
		t.Fatalf("DisplaySolutions() error = %v", err)
	}

	output := buf.String()

	for _, want := range []string{"34", "18.5", "ok", "failed"} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestSimpleUI_DisplaySolutions_Empty(t *testing.T) {
	ui, buf := newTestUI()

	if err := ui.DisplaySolutions(displayProblem(), nil); err != nil {
		t.Fatalf("DisplaySolutions() error = %v", err)
	}

	if !strings.Contains(buf.String(), "No solutions.") {
		t.Fatalf("output missing the empty notice:\n%s", buf.String())
	}
}

func TestSimpleUI_DisplayArchive_PrintsFlags(t *testing.T) {
	ui, buf := newTestUI()

	entries := []m.ArchiveEntry{
		{ID: 1, Current: true, Saved: true, Objectives: map[string]float64{"f_1": 34, "f_2": 18.5}},
		{ID: 2, Objectives: map[string]float64{"f_1": 12, "f_2": 40}},
		{ID: 3, Chosen: true, Objectives: map[string]float64{"f_1": 60, "f_2": 5}},
	}

	if err := ui.DisplayArchive(displayProblem(), entries); err != nil {
		t.Fatalf("DisplayArchive() error = %v", err)
	}

	output := buf.String()

	for _, want := range []string{"current saved", "chosen", "34", "40", "60"} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestSimpleUI_DisplayArchive_Empty(t *testing.T) {
	ui, buf := newTestUI()

	if err := ui.DisplayArchive(displayProblem(), nil); err != nil {
		t.Fatalf("DisplayArchive() error = %v", err)
	}

	if !strings.Contains(buf.String(), "The archive is empty.") {
		t.Fatalf("output missing the empty notice:\n%s", buf.String())
	}
}
