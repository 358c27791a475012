package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mode is the kind of application.
type Mode string

const (
	ModeChat       Mode = "chat"
	ModeCompletion Mode = "completion"
)

// DefaultIcon is used when an app is created without one.
const (
	DefaultIcon           = "🤖"
	DefaultIconBackground = "#FFEAD5"
)

// App is one AI application in a workspace.
type App struct {
	ID             string    `json:"id"`
	WorkspaceID    int64     `json:"-"`
	Name           string    `json:"name"`
	Mode           Mode      `json:"mode"`
	Icon           string    `json:"icon"`
	IconBackground string    `json:"icon_background"`
	CreatedAt      time.Time `json:"created_at"`
}

// ItemID returns the app id.
func (a App) ItemID() string { return a.ID }

// NewApp validates input and fills in display defaults.
func NewApp(workspaceID int64, name string, mode Mode, icon, iconBackground string) (*App, error) {
	if workspaceID <= 0 {
		return nil, fmt.Errorf("invalid workspace ID: %d", workspaceID)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("app name is required")
	}
	if len(name) > 255 {
		return nil, fmt.Errorf("app name must be at most 255 characters")
	}
	if mode == "" {
		mode = ModeChat
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid app mode: %s", mode)
	}
	if icon == "" {
		icon = DefaultIcon
	}
	if iconBackground == "" {
		iconBackground = DefaultIconBackground
	}

	return &App{
		ID:             uuid.NewString(),
		WorkspaceID:    workspaceID,
		Name:           name,
		Mode:           mode,
		Icon:           icon,
		IconBackground: iconBackground,
	}, nil
}

// IsValid checks the mode is known.
func (m Mode) IsValid() bool {
	switch m {
	case ModeChat, ModeCompletion:
		return true
	}
	return false
}
