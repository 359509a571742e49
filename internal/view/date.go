package view

import (
	"fmt"
	"time"
)

var monthsES = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDate renders t as a long es-MX date, e.g. "15 de octubre de 2024".
func (v *Renderer) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(v.loc)
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthsES[t.Month()-1], t.Year())
}
