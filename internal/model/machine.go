package model

// Machine represents a production machine.
type Machine struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ManualLink  string `json:"manualLink"`
}

func (m Machine) EntityID() int64 { return m.ID }

func (m Machine) WithID(id int64) Machine {
	m.ID = id
	return m
}

// MachinePatch carries the fields of a machine edit.
type MachinePatch struct {
	Name        *string
	Description *string
	ManualLink  *string
}

func (p MachinePatch) Apply(m Machine) Machine {
	setString(&m.Name, p.Name)
	setString(&m.Description, p.Description)
	setString(&m.ManualLink, p.ManualLink)
	return m
}
