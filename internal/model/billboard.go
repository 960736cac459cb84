package model

import "time"

const (
	BillboardStatusAvailable = "available"
	BillboardStatusRented    = "rented"
)

type Billboard struct {
	ID             int64
	Name           string
	Size           string
	City           string
	Municipality   string
	ContractNumber *string
	RentEndDate    *time.Time
	Status         string
	HasCutout      bool
}

// InstallationRecord is the latest installation line item known for a billboard.
type InstallationRecord struct {
	BillboardID       int64
	DesignFaceA       *string
	DesignFaceB       *string
	InstalledImageURL *string
	CreatedAt         time.Time
}
