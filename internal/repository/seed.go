package repository

import (
	"time"

	"opspanel-backend/internal/model"
)

// SeedOperators is installed when the operators slot has never been written.
func SeedOperators() []model.Operator {
	return []model.Operator{
		{
			ID:          1,
			Name:        "Juan Pérez García",
			Number:      "OP-001",
			BloodType:   "O+",
			RFC:         "PEGJ850315XY9",
			Description: "Operador con 5 años de experiencia en el área de logística. Especializado en transporte de materiales y gestión de rutas.",
		},
		{
			ID:          2,
			Name:        "María González López",
			Number:      "OP-002",
			BloodType:   "A+",
			RFC:         "GOLM901225AB3",
			Description: "Operadora certificada en manejo de equipo pesado. Responsable y comprometida con la seguridad operacional.",
		},
		{
			ID:          3,
			Name:        "Carlos Rodríguez Martínez",
			Number:      "OP-003",
			BloodType:   "B-",
			RFC:         "ROMC880720CD5",
			Description: "Operador senior con certificaciones en seguridad industrial. Instructor de nuevos operadores.",
		},
	}
}

// SeedMachines is installed when the machines slot has never been written.
func SeedMachines() []model.Machine {
	return []model.Machine{
		{
			ID:          1,
			Name:        "Torno convencional",
			Description: "Máquina herramienta que permite mecanizar piezas de forma geométrica de revolución. Utiliza herramientas de corte para dar forma a materiales como metal, madera o plástico mediante rotación.",
			ManualLink:  "https://ejemplo.com/manual-torno.pdf",
		},
		{
			ID:          2,
			Name:        "Fresadora convencional",
			Description: "Máquina que realiza trabajos de mecanizado por arranque de viruta mediante el movimiento de una herramienta rotativa de varios filos de corte.",
			ManualLink:  "https://ejemplo.com/manual-fresadora.pdf",
		},
		{
			ID:          3,
			Name:        "ROMI 1250 - A",
			Description: "Torno CNC de alta precisión con control numérico computarizado. Capacidad para trabajar piezas de hasta 1250mm de longitud.",
			ManualLink:  "https://ejemplo.com/manual-romi-1250.pdf",
		},
	}
}

const placeholderChart = "data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='400' height='300'%3E%3Crect width='400' height='300' fill='%23f0f0f0'/%3E%3Ctext x='200' y='150' font-family='Arial' font-size='16' text-anchor='middle' fill='%23666'%3EGr%C3%A1fica de Ejemplo%3C/text%3E%3C/svg%3E"

// SeedReports is installed when the reports slot has never been written. The sample report is dated now.
func SeedReports(now time.Time) []model.Report {
	return []model.Report{
		{
			ID:          1,
			MachineID:   1,
			Title:       "Producción Mensual - Octubre 2024",
			ImageData:   placeholderChart,
			Description: "Este reporte muestra un incremento del 15% en la producción comparado con el mes anterior.",
			Date:        now.UTC(),
		},
	}
}
