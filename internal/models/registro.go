package models

type TipoRegistro string

const (
	TipoEntrada         TipoRegistro = "entrada"
	TipoSalida          TipoRegistro = "salida"
	TipoEntradaAlmuerzo TipoRegistro = "entrada_almuerzo"
	TipoSalidaAlmuerzo  TipoRegistro = "salida_almuerzo"
)

// TiposRegistro в порядке кнопок на панели
var TiposRegistro = []TipoRegistro{
	TipoEntrada,
	TipoSalidaAlmuerzo,
	TipoEntradaAlmuerzo,
	TipoSalida,
}

var tiposNombres = map[TipoRegistro]string{
	TipoEntrada:         "Entrada",
	TipoSalida:          "Salida",
	TipoEntradaAlmuerzo: "Entrada Almuerzo",
	TipoSalidaAlmuerzo:  "Salida Almuerzo",
}

func (t TipoRegistro) Valid() bool {
	_, ok := tiposNombres[t]
	return ok
}

// Nombre читаемое название типа; неизвестный тип возвращается как есть
func (t TipoRegistro) Nombre() string {
	if n, ok := tiposNombres[t]; ok {
		return n
	}
	return string(t)
}

// Registro отметка о посещении
type Registro struct {
	Tipo           TipoRegistro `json:"tipo"`
	Hora           string       `json:"hora"`
	Fecha          string       `json:"fecha,omitempty"`
	Timestamp      string       `json:"timestamp,omitempty"`
	Tarde          bool         `json:"tarde"`
	MinutosTarde   int          `json:"minutos_tarde,omitempty"`
	NombreCompleto string       `json:"nombre_completo,omitempty"`
	Servicio       string       `json:"servicio,omitempty"`
}

// IsLateArrival опоздание считается только по входу
func (r Registro) IsLateArrival() bool {
	return r.Tipo == TipoEntrada && r.Tarde
}

// RegistroResultado ответ бэкенда на registrar_asistencia
type RegistroResultado struct {
	Message string
	Tarde   bool
}
