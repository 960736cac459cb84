package model

import "github.com/google/uuid"

type InstallationTeam struct {
	ID     uuid.UUID
	Name   string
	Sizes  []string `gorm:"-"`
	Cities []string `gorm:"-"` // empty means the team services every city
}
