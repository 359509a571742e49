package model

// Operator represents a machine operator.
type Operator struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Number      string `json:"number"`
	BloodType   string `json:"bloodType"`
	RFC         string `json:"rfc"`
	Description string `json:"description,omitempty"`
	Photo       string `json:"photo,omitempty"` // data URL
}

func (o Operator) EntityID() int64 { return o.ID }

func (o Operator) WithID(id int64) Operator {
	o.ID = id
	return o
}

// OperatorPatch carries the fields of an operator edit. Nil fields keep the stored value.
type OperatorPatch struct {
	Name        *string
	Number      *string
	BloodType   *string
	RFC         *string
	Description *string
	Photo       *string
}

// Apply merges the patch over o field by field.
func (p OperatorPatch) Apply(o Operator) Operator {
	setString(&o.Name, p.Name)
	setString(&o.Number, p.Number)
	setString(&o.BloodType, p.BloodType)
	setString(&o.RFC, p.RFC)
	setString(&o.Description, p.Description)
	setString(&o.Photo, p.Photo)
	return o
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
