package commands

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-press/internal/site"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const buildSiteMessageType = "press.site.build"

// BuildSiteCommand requests a full or scoped site build.
type BuildSiteCommand struct {
	DryRun   bool     `json:"dry_run"`
	Force    bool     `json:"force"`
	Sections []string `json:"sections,omitempty"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate ensures the message carries usable fields before reaching handlers.
func (m BuildSiteCommand) Validate() error {
	errs := validation.Errors{}
	for _, section := range m.Sections {
		if strings.TrimSpace(section) == "" {
			errs["sections"] = validation.NewError("press.site.build.section_empty", "sections must not contain blank entries")
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BuildSiteHandler runs builds through the site service.
type BuildSiteHandler struct {
	inner *Handler[BuildSiteCommand]
}

// NewBuildSiteHandler constructs a handler wired to the provided site
// service. The sink, when non-nil, receives the build result on success.
func NewBuildSiteHandler(service site.Service, logger interfaces.Logger, sink func(*site.BuildResult), opts ...HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		result, err := service.Build(ctx, site.BuildOptions{
			DryRun:   msg.DryRun,
			Force:    msg.Force,
			Sections: msg.Sections,
		})
		if err != nil {
			return err
		}
		if sink != nil {
			sink(result)
		}
		return nil
	}

	handlerOpts := []HandlerOption[BuildSiteCommand]{
		WithLogger[BuildSiteCommand](logger),
		WithOperation[BuildSiteCommand]("site.build"),
		// Builds routinely outlast the default command timeout.
		WithTimeout[BuildSiteCommand](0),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{inner: NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[BuildSiteCommand].Execute.
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}
