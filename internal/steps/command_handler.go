// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-04
// Last Modified: 2026-10-15

package steps

import (
	"fmt"
	"log"

	"github.com/similigh/membership-bot/internal/core/pipeline"
	"github.com/similigh/membership-bot/internal/membership"
)

// CommandHandler lets only the approval command through.
type CommandHandler struct{}

// NewCommandHandler creates a new command handler step.
func NewCommandHandler(deps *pipeline.Dependencies) *CommandHandler {
	return &CommandHandler{}
}

// Name returns the step name.
func (s *CommandHandler) Name() string {
	return "command_handler"
}

// Run compares the trimmed comment body with the approval command.
func (s *CommandHandler) Run(ctx *pipeline.Context) error {
	comment := ctx.Event.Comment
	if comment == nil {
		return fmt.Errorf("comment event without a comment")
	}

	if !membership.IsCommand(comment.Body, ctx.Config.ApproveCommand) {
		return ctx.Skip("not an approval command")
	}

	log.Printf("[command_handler] %s requested approval of #%d", comment.Author.Login, ctx.Event.Issue.Number)
	return nil
}
