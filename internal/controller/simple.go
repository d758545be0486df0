// Package controller renders problems, solutions, and archives for the
// command line.
package controller

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/pareto/internal/model"
)

// UI displays the artifacts of an interactive session. Implementations can
// use different output methods.
type UI interface {
	DisplayProblem(problem m.Problem) error
	DisplaySolutions(problem m.Problem, results []m.SolverResults) error
	DisplayArchive(problem m.Problem, entries []m.ArchiveEntry) error
}

// SimpleUI implements UI with plain tables on the command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayProblem prints the problem's variables and objectives.
func (s *SimpleUI) DisplayProblem(problem m.Problem) error {
	s.printf("%s\n", problem.Name)

	if problem.Description != "" {
		s.printf("%s\n", problem.Description)
	}

	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"Variable", "Type", "Lower", "Upper"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, v := range problem.Variables {
		table.Append([]string{v.Symbol, string(v.Type), formatValue(v.LowerBound), formatValue(v.UpperBound)})
	}

	table.Render()
	s.printf("\n%s", buffer.String())

	buffer.Reset()

	table = tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"Objective", "Direction", "Ideal", "Nadir"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, obj := range problem.Objectives {
		direction := "minimize"
		if obj.Maximize {
			direction = "maximize"
		}

		table.Append([]string{obj.Symbol, direction, formatOptional(obj.Ideal), formatOptional(obj.Nadir)})
	}

	table.Render()
	s.printf("\n%s", buffer.String())

	return nil
}

// DisplaySolutions prints one row per solver result with the objective
// values in problem order.
func (s *SimpleUI) DisplaySolutions(problem m.Problem, results []m.SolverResults) error {
	if len(results) == 0 {
		s.printf("No solutions.\n")
		return nil
	}

	header := []string{"#", "Status"}
	for _, obj := range problem.Objectives {
		header = append(header, obj.Symbol)
	}

	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for i, result := range results {
		status := "ok"
		if !result.Success {
			status = "failed"
		}

		row := []string{strconv.Itoa(i + 1), status}
		for _, obj := range problem.Objectives {
			row = append(row, formatValue(result.OptimalObjectives[obj.Symbol]))
		}

		table.Append(row)
	}

	table.Render()
	s.printf("\n%s", buffer.String())

	return nil
}

// DisplayArchive prints the stored entries of one session with their flags.
func (s *SimpleUI) DisplayArchive(problem m.Problem, entries []m.ArchiveEntry) error {
	if len(entries) == 0 {
		s.printf("The archive is empty.\n")
		return nil
	}

	header := []string{"ID", "Flags"}
	for _, obj := range problem.Objectives {
		header = append(header, obj.Symbol)
	}

	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, entry := range entries {
		row := []string{strconv.FormatUint(uint64(entry.ID), 10), entryFlags(entry)}
		for _, obj := range problem.Objectives {
			row = append(row, formatValue(entry.Objectives[obj.Symbol]))
		}

		table.Append(row)
	}

	table.Render()
	s.printf("\n%s", buffer.String())

	return nil
}

func entryFlags(entry m.ArchiveEntry) string {
	flags := ""

	if entry.Current {
		flags += "current "
	}

	if entry.Saved {
		flags += "saved "
	}

	if entry.Chosen {
		flags += "chosen "
	}

	if flags == "" {
		return "-"
	}

	return flags[:len(flags)-1]
}

func formatValue(value float64) string {
	return strconv.FormatFloat(value, 'g', 6, 64)
}

func formatOptional(value *float64) string {
	if value == nil {
		return "-"
	}

	return formatValue(*value)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
