// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/similigh/membership-bot/internal/core/config"
	"github.com/similigh/membership-bot/internal/core/pipeline"
	"github.com/similigh/membership-bot/internal/tui"
	"github.com/similigh/membership-bot/internal/workflow"
)

// Wrapper step to send status updates
type statusReportingStep struct {
	inner      pipeline.Step
	statusChan chan<- tui.PipelineStatusMsg
	delay      time.Duration
}

func (s *statusReportingStep) Name() string {
	return s.inner.Name()
}

func (s *statusReportingStep) Run(ctx *pipeline.Context) error {
	s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusStarted, Message: "Starting..."}
	time.Sleep(s.delay) // Artificial delay for visual effect

	err := s.inner.Run(ctx)

	if err != nil {
		if errors.Is(err, pipeline.ErrSkipPipeline) {
			s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusSkipped, Message: ctx.Result.SkipReason}
			return err
		}
		s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusError, Message: err.Error()}
		return err
	}

	s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusSuccess, Message: "Completed"}
	return nil
}

// runWorkflow handles the event with every step reporting to statusChan and
// sends the final result to the TUI program.
func runWorkflow(p *tea.Program, cfg *config.Config, org string, deps *pipeline.Dependencies, event *pipeline.Event, statusChan chan tui.PipelineStatusMsg) (*pipeline.Result, error) {
	defer close(statusChan)

	wf := workflow.New(cfg, org, deps, workflow.WithStepWrapper(func(step pipeline.Step) pipeline.Step {
		return &statusReportingStep{inner: step, statusChan: statusChan, delay: 100 * time.Millisecond}
	}))

	result, err := wf.Handle(context.Background(), event)
	if err != nil {
		send(p, tui.ResultMsg{Success: false, Output: err.Error()})
		return result, err
	}

	// Marshal result to JSON
	resultBytes, _ := json.MarshalIndent(result, "", "  ")
	send(p, tui.ResultMsg{Success: true, Output: string(resultBytes)})
	return result, nil
}

func send(p *tea.Program, msg tea.Msg) {
	if p != nil {
		p.Send(msg)
	}
}
