package model

import "time"

// Report is a production report attached to a machine.
// MachineID is not checked against the machine collection.
type Report struct {
	ID          int64     `json:"id"`
	MachineID   int64     `json:"machineId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageData   string    `json:"imageData"` // data URL
	Date        time.Time `json:"date"`
}

func (r Report) EntityID() int64 { return r.ID }

func (r Report) WithID(id int64) Report {
	r.ID = id
	return r
}

// ReportPatch carries the fields of a report edit.
type ReportPatch struct {
	MachineID   *int64
	Title       *string
	Description *string
	ImageData   *string
	Date        *time.Time
}

func (p ReportPatch) Apply(r Report) Report {
	if p.MachineID != nil {
		r.MachineID = *p.MachineID
	}
	setString(&r.Title, p.Title)
	setString(&r.Description, p.Description)
	setString(&r.ImageData, p.ImageData)
	if p.Date != nil {
		r.Date = *p.Date
	}
	return r
}
