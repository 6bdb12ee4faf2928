package models

import "strings"

type Rol string

const (
	RolAdmin      Rol = "admin"
	RolSupervisor Rol = "supervisor"
	RolEmpleado   Rol = "empleado"
)

func (r Rol) Valid() bool {
	return r == RolAdmin || r == RolSupervisor || r == RolEmpleado
}

// Empleado запись сессии: текущий пользователь, как его вернул бэкенд при входе
type Empleado struct {
	ID             int    `json:"id"`
	Nombre         string `json:"nombre"`
	Apellido       string `json:"apellido"`
	Usuario        string `json:"usuario"`
	Rol            Rol    `json:"rol"`
	ServicioID     int    `json:"servicio_id"`
	ServicioNombre string `json:"servicio_nombre"`
	HoraEntrada    string `json:"hora_entrada"`
	HoraSalida     string `json:"hora_salida"`
	Activo         bool   `json:"activo,omitempty"`
	EmpresaID      string `json:"empresa_id,omitempty"`
	EmpresaNombre  string `json:"empresa_nombre,omitempty"`
}

// NombreCompleto имя и фамилия через пробел
func (e *Empleado) NombreCompleto() string {
	return strings.TrimSpace(e.Nombre + " " + e.Apellido)
}

// HasSession запись пригодна для сессии: есть id и роль
func (e *Empleado) HasSession() bool {
	return e != nil && e.ID != 0 && e.Rol != ""
}

// NuevoEmpleado данные формы создания сотрудника
type NuevoEmpleado struct {
	Nombre      string `json:"nombre" validate:"required"`
	Apellido    string `json:"apellido" validate:"required"`
	Usuario     string `json:"usuario" validate:"required"`
	PIN         string `json:"pin" validate:"required,len=4,number"`
	Rol         Rol    `json:"rol" validate:"required,oneof=admin supervisor empleado"`
	ServicioID  int    `json:"servicio_id" validate:"required,gt=0"`
	HoraEntrada string `json:"hora_entrada" validate:"omitempty,datetime=15:04"`
	HoraSalida  string `json:"hora_salida" validate:"omitempty,datetime=15:04"`
}

type Servicio struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Activo      bool   `json:"activo"`
}
