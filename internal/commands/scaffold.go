package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-press/pkg/interfaces"
	slug "github.com/goliatone/go-slug"
	"gopkg.in/yaml.v3"
)

const scaffoldPostMessageType = "press.content.scaffold"

// ScaffoldPostCommand creates a new post file with YAML front matter.
type ScaffoldPostCommand struct {
	Title   string    `json:"title"`
	Dir     string    `json:"dir"`
	Summary string    `json:"summary,omitempty"`
	Tags    []string  `json:"tags,omitempty"`
	Draft   bool      `json:"draft"`
	Date    time.Time `json:"date,omitempty"`
}

// Type implements command.Message.
func (ScaffoldPostCommand) Type() string { return scaffoldPostMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m ScaffoldPostCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Title) == "" {
		errs["title"] = validation.NewError("press.content.scaffold.title_required", "title is required")
	}
	if strings.TrimSpace(m.Dir) == "" {
		errs["dir"] = validation.NewError("press.content.scaffold.dir_required", "dir is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type scaffoldFrontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Summary string   `yaml:"summary,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Draft   bool     `yaml:"draft,omitempty"`
}

// ScaffoldPostHandler writes a post skeleton into the content directory.
type ScaffoldPostHandler struct {
	inner *Handler[ScaffoldPostCommand]
	// Path holds the file created by the most recent successful execution.
	path string
}

// NewScaffoldPostHandler constructs a handler that writes post skeletons. The
// sink, when non-nil, receives the created file path.
func NewScaffoldPostHandler(logger interfaces.Logger, sink func(path string), opts ...HandlerOption[ScaffoldPostCommand]) *ScaffoldPostHandler {
	h := &ScaffoldPostHandler{}
	exec := func(_ context.Context, msg ScaffoldPostCommand) error {
		path, err := scaffoldPost(msg)
		if err != nil {
			return err
		}
		h.path = path
		if sink != nil {
			sink(path)
		}
		return nil
	}

	handlerOpts := []HandlerOption[ScaffoldPostCommand]{
		WithLogger[ScaffoldPostCommand](logger),
		WithOperation[ScaffoldPostCommand]("content.scaffold"),
	}
	handlerOpts = append(handlerOpts, opts...)

	h.inner = NewHandler(exec, handlerOpts...)
	return h
}

// Execute satisfies command.Commander[ScaffoldPostCommand].Execute.
func (h *ScaffoldPostHandler) Execute(ctx context.Context, msg ScaffoldPostCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Path returns the file created by the most recent successful execution.
func (h *ScaffoldPostHandler) Path() string {
	return h.path
}

func scaffoldPost(msg ScaffoldPostCommand) (string, error) {
	normalized, err := slug.Normalize(msg.Title)
	if err != nil {
		return "", fmt.Errorf("commands: slug for %q: %w", msg.Title, err)
	}

	date := msg.Date
	if date.IsZero() {
		date = time.Now()
	}

	front := scaffoldFrontMatter{
		Title:   strings.TrimSpace(msg.Title),
		Date:    date.Format("2006-01-02"),
		Summary: strings.TrimSpace(msg.Summary),
		Tags:    msg.Tags,
		Draft:   msg.Draft,
	}
	encoded, err := yaml.Marshal(front)
	if err != nil {
		return "", fmt.Errorf("commands: encode front matter: %w", err)
	}

	if err := os.MkdirAll(msg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("commands: create content directory: %w", err)
	}

	path := filepath.Join(msg.Dir, normalized+".md")
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("commands: post already exists: %s", path)
		}
		return "", fmt.Errorf("commands: create post: %w", err)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "---\n%s---\n\nWrite something here.\n", encoded); err != nil {
		return "", fmt.Errorf("commands: write post: %w", err)
	}
	return path, nil
}
