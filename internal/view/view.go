// Package view projects repository contents into display models. Nothing here mutates state.
package view

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"opspanel-backend/internal/model"
)

// EmptyState is shown in place of an empty card grid.
type EmptyState struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Hint  string `json:"hint"`
}

type OperatorCard struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Number      string `json:"number"`
	BloodType   string `json:"bloodType"`
	RFC         string `json:"rfc"`
	Description string `json:"description,omitempty"`
	Photo       string `json:"photo,omitempty"`
	Initials    string `json:"initials,omitempty"` // only set when there is no photo
}

type OperatorsView struct {
	Cards []OperatorCard `json:"cards"`
	Empty *EmptyState    `json:"empty,omitempty"`
}

type MachineCard struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ManualLink  string `json:"manualLink"`
}

type MachinesView struct {
	Cards []MachineCard `json:"cards"`
	Empty *EmptyState   `json:"empty,omitempty"`
}

type MachineSelectCard struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ReportCount int    `json:"reportCount"`
	CountLabel  string `json:"countLabel"`
}

type MachineSelectionView struct {
	Cards []MachineSelectCard `json:"cards"`
	Empty *EmptyState         `json:"empty,omitempty"`
}

type ReportCard struct {
	ID            int64     `json:"id"`
	MachineID     int64     `json:"machineId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ImageData     string    `json:"imageData"`
	Date          time.Time `json:"date"`
	FormattedDate string    `json:"formattedDate"`
}

type ReportsView struct {
	MachineID int64        `json:"machineId"`
	Cards     []ReportCard `json:"cards"`
	Empty     *EmptyState  `json:"empty,omitempty"`
}

// Stats is the menu summary.
type Stats struct {
	TotalOperators int `json:"totalOperators"`
	TotalMachines  int `json:"totalMachines"`
	TotalReports   int `json:"totalReports"`
}

// OperatorPhoto is the enlarged photo view.
type OperatorPhoto struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
	Photo  string `json:"photo"`
}

// Renderer formats dates in a fixed location.
type Renderer struct {
	loc *time.Location
}

// NewRenderer creates a Renderer. A nil loc means UTC.
func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

// Initials returns the uppercased first letters of the first two words of name.
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ReportCountLabel renders "1 reporte" and "N reportes" for every other N, zero included.
func ReportCountLabel(n int) string {
	if n != 1 {
		return fmt.Sprintf("%d reportes", n)
	}
	return fmt.Sprintf("%d reporte", n)
}

func (v *Renderer) Operators(ops []model.Operator) OperatorsView {
	if len(ops) == 0 {
		return OperatorsView{Cards: []OperatorCard{}, Empty: &EmptyState{
			Icon: "👤", Title: "No hay operadores registrados", Hint: "Comienza agregando un nuevo operador",
		}}
	}
	cards := make([]OperatorCard, 0, len(ops))
	for _, o := range ops {
		card := OperatorCard{
			ID:          o.ID,
			Name:        o.Name,
			Number:      o.Number,
			BloodType:   o.BloodType,
			RFC:         o.RFC,
			Description: o.Description,
			Photo:       o.Photo,
		}
		if o.Photo == "" {
			card.Initials = Initials(o.Name)
		}
		cards = append(cards, card)
	}
	return OperatorsView{Cards: cards}
}

func (v *Renderer) Machines(machines []model.Machine) MachinesView {
	if len(machines) == 0 {
		return MachinesView{Cards: []MachineCard{}, Empty: &EmptyState{
			Icon: "⚙️", Title: "No hay máquinas registradas", Hint: "Comienza agregando una nueva máquina",
		}}
	}
	cards := make([]MachineCard, 0, len(machines))
	for _, m := range machines {
		cards = append(cards, MachineCard(m))
	}
	return MachinesView{Cards: cards}
}

// MachineSelection is the report landing page: every machine with its report count.
func (v *Renderer) MachineSelection(machines []model.Machine, reports []model.Report) MachineSelectionView {
	if len(machines) == 0 {
		return MachineSelectionView{Cards: []MachineSelectCard{}, Empty: &EmptyState{
			Icon: "⚙️", Title: "No hay máquinas registradas", Hint: `Primero agrega máquinas en "Administrar Máquinas"`,
		}}
	}
	counts := make(map[int64]int, len(machines))
	for _, r := range reports {
		counts[r.MachineID]++
	}
	cards := make([]MachineSelectCard, 0, len(machines))
	for _, m := range machines {
		n := counts[m.ID]
		cards = append(cards, MachineSelectCard{ID: m.ID, Name: m.Name, ReportCount: n, CountLabel: ReportCountLabel(n)})
	}
	return MachineSelectionView{Cards: cards}
}

// MachineReports lists the reports of one machine, newest first. Equal dates keep collection order.
func (v *Renderer) MachineReports(machineID int64, reports []model.Report) ReportsView {
	scoped := make([]model.Report, 0, len(reports))
	for _, r := range reports {
		if r.MachineID == machineID {
			scoped = append(scoped, r)
		}
	}
	if len(scoped) == 0 {
		return ReportsView{MachineID: machineID, Cards: []ReportCard{}, Empty: &EmptyState{
			Icon: "📊", Title: "No hay reportes para esta máquina", Hint: "Comienza agregando un nuevo reporte con gráficas",
		}}
	}

	sort.SliceStable(scoped, func(i, j int) bool {
		return scoped[i].Date.After(scoped[j].Date)
	})

	cards := make([]ReportCard, 0, len(scoped))
	for _, r := range scoped {
		cards = append(cards, v.ReportDetail(r))
	}
	return ReportsView{MachineID: machineID, Cards: cards}
}

// ReportDetail is the full view of a single report.
func (v *Renderer) ReportDetail(r model.Report) ReportCard {
	return ReportCard{
		ID:            r.ID,
		MachineID:     r.MachineID,
		Title:         r.Title,
		Description:   r.Description,
		ImageData:     r.ImageData,
		Date:          r.Date,
		FormattedDate: v.FormatDate(r.Date),
	}
}

func (v *Renderer) OperatorPhoto(o model.Operator) OperatorPhoto {
	return OperatorPhoto{ID: o.ID, Name: o.Name, Number: o.Number, Photo: o.Photo}
}

func (v *Renderer) Stats(operators, machines, reports int) Stats {
	return Stats{TotalOperators: operators, TotalMachines: machines, TotalReports: reports}
}
