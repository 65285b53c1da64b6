package commands

import (
	"context"

	"github.com/goliatone/go-press/internal/content"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const checkContentMessageType = "press.content.check"

// CheckContentCommand requests a corpus lint: metadata completeness,
// cross-reference integrity and fence language validation. All findings are
// aggregated into the returned error.
type CheckContentCommand struct{}

// Type implements command.Message.
func (CheckContentCommand) Type() string { return checkContentMessageType }

// Validate implements command.Message.
func (CheckContentCommand) Validate() error { return nil }

// CheckContentHandler loads the corpus through the content service and
// surfaces every document problem it finds.
type CheckContentHandler struct {
	inner *Handler[CheckContentCommand]
}

// NewCheckContentHandler constructs a handler wired to the provided content
// service. The sink, when non-nil, receives the loaded corpus on success.
func NewCheckContentHandler(service *content.Service, logger interfaces.Logger, sink func(*content.Corpus), opts ...HandlerOption[CheckContentCommand]) *CheckContentHandler {
	exec := func(ctx context.Context, _ CheckContentCommand) error {
		corpus, err := service.LoadCorpus(ctx)
		if err != nil {
			return err
		}
		if sink != nil {
			sink(corpus)
		}
		return nil
	}

	handlerOpts := []HandlerOption[CheckContentCommand]{
		WithLogger[CheckContentCommand](logger),
		WithOperation[CheckContentCommand]("content.check"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CheckContentHandler{inner: NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CheckContentCommand].Execute.
func (h *CheckContentHandler) Execute(ctx context.Context, msg CheckContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
