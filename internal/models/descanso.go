package models

// Причины дней отдыха и пропусков
const (
	MotivoVacaciones         = "Vacaciones"
	MotivoPermisoPersonal    = "Permiso Personal"
	MotivoDescanso           = "Descanso"
	MotivoIncapacidad        = "Incapacidad"
	MotivoDiaFestivo         = "Día Festivo"
	MotivoSuspension         = "Suspensión"
	MotivoFaltaSinJustificar = "Falta sin Justificación"
	MotivoFaltaJustificada   = "Falta con Justificación"
)

// Motivos все известные причины в порядке вывода статистики
var Motivos = []string{
	MotivoVacaciones,
	MotivoPermisoPersonal,
	MotivoDescanso,
	MotivoIncapacidad,
	MotivoDiaFestivo,
	MotivoSuspension,
	MotivoFaltaSinJustificar,
	MotivoFaltaJustificada,
}

// IsLegitimateRest причина считается законным отдыхом, а не пропуском
func IsLegitimateRest(motivo string) bool {
	switch motivo {
	case MotivoVacaciones, MotivoPermisoPersonal, MotivoDescanso, MotivoIncapacidad, MotivoDiaFestivo:
		return true
	}
	return false
}

type DiaDescanso struct {
	ID             int    `json:"id,omitempty"`
	EmpleadoNombre string `json:"empleado_nombre,omitempty"`
	// бэкенд администратора отдаёт имя в колонке "Empleado"
	Empleado    string `json:"Empleado,omitempty"`
	Fecha       string `json:"fecha"`
	Motivo      string `json:"motivo"`
	AprobadoPor string `json:"aprobado_por,omitempty"`
}

func (d DiaDescanso) Nombre() string {
	switch {
	case d.EmpleadoNombre != "":
		return d.EmpleadoNombre
	case d.Empleado != "":
		return d.Empleado
	}
	return "Sin nombre"
}

type Falta struct {
	ID             int    `json:"id,omitempty"`
	EmpleadoNombre string `json:"empleado_nombre"`
	Fecha          string `json:"fecha"`
	Motivo         string `json:"motivo"`
	RegistradaPor  string `json:"registrada_por,omitempty"`
}

// DashboardStats сводка панели администратора
type DashboardStats struct {
	EmpleadosActivos int
	RegistrosHoy     []Registro
	LlegadasTarde    int
	DiasDescanso     []DiaDescanso
	DescansosLegit   int
	PorMotivo        map[string]int

	// Какие разделы удалось загрузить
	EmpleadosOK bool
	RegistrosOK bool
	DescansosOK bool
}
