package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultIcon           = "📙"
	DefaultIconBackground = "#FFF4ED"
)

// Dataset is a knowledge collection in a workspace.
type Dataset struct {
	ID             string    `json:"id"`
	WorkspaceID    int64     `json:"-"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Icon           string    `json:"icon"`
	IconBackground string    `json:"icon_background"`
	DocumentCount  int       `json:"document_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// ItemID returns the dataset id.
func (d Dataset) ItemID() string { return d.ID }

// NewDataset validates input and fills in display defaults.
func NewDataset(workspaceID int64, name, description, icon, iconBackground string) (*Dataset, error) {
	if workspaceID <= 0 {
		return nil, fmt.Errorf("invalid workspace ID: %d", workspaceID)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("dataset name is required")
	}
	if len(name) > 40 {
		return nil, fmt.Errorf("dataset name must be at most 40 characters")
	}
	if icon == "" {
		icon = DefaultIcon
	}
	if iconBackground == "" {
		iconBackground = DefaultIconBackground
	}

	return &Dataset{
		ID:             uuid.NewString(),
		WorkspaceID:    workspaceID,
		Name:           name,
		Description:    strings.TrimSpace(description),
		Icon:           icon,
		IconBackground: iconBackground,
	}, nil
}
