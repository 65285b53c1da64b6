package commands

import (
	"context"

	"github.com/goliatone/go-press/internal/site"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const cleanSiteMessageType = "press.site.clean"

// CleanSiteCommand requests removal of the output tree.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate implements command.Message.
func (CleanSiteCommand) Validate() error { return nil }

// CleanSiteHandler removes build artifacts through the site service.
type CleanSiteHandler struct {
	inner *Handler[CleanSiteCommand]
}

// NewCleanSiteHandler constructs a handler wired to the provided site service.
func NewCleanSiteHandler(service site.Service, logger interfaces.Logger, opts ...HandlerOption[CleanSiteCommand]) *CleanSiteHandler {
	exec := func(ctx context.Context, _ CleanSiteCommand) error {
		return service.Clean(ctx)
	}

	handlerOpts := []HandlerOption[CleanSiteCommand]{
		WithLogger[CleanSiteCommand](logger),
		WithOperation[CleanSiteCommand]("site.clean"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanSiteHandler{inner: NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CleanSiteCommand].Execute.
func (h *CleanSiteHandler) Execute(ctx context.Context, msg CleanSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}
