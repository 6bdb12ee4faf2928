package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

const DemoTenantID = "demo"

var ErrUnknownTenant = errors.New("empresa no válida")

// Tenant конфигурация одной компании: имя и адрес её бэкенда
type Tenant struct {
	ID     string `mapstructure:"id" json:"id"`
	Nombre string `mapstructure:"nombre" json:"nombre"`
	APIURL string `mapstructure:"api_url" json:"api_url"`
}

// Configured сообщает, есть ли у компании рабочий адрес API
func (t Tenant) Configured() bool {
	return strings.TrimSpace(t.APIURL) != ""
}

type Registry struct {
	tenants map[string]Tenant
}

func NewRegistry(tenants ...Tenant) *Registry {
	r := &Registry{tenants: make(map[string]Tenant, len(tenants)+1)}
	for _, t := range tenants {
		r.tenants[t.ID] = t
	}
	// demo есть всегда, даже если файл его не описывает
	if _, ok := r.tenants[DemoTenantID]; !ok {
		r.tenants[DemoTenantID] = demoTenant()
	}
	return r
}

func demoTenant() Tenant {
	return Tenant{ID: DemoTenantID, Nombre: "⚠️ Demo", APIURL: ""}
}

// DefaultRegistry встроенный реестр компаний
func DefaultRegistry() *Registry {
	return NewRegistry(
		Tenant{
			ID:     "empresa_a",
			Nombre: "Divinely Cleans",
			APIURL: "https://script.google.com/macros/s/AKfycbz6uJAYdFxqlKL4B-CwiCp9xZeC4RS4ZfbEJnUD_K4wCN3xHjjlI4M1Ljaq5WYar3Sx/exec",
		},
		Tenant{
			ID:     "empresa_b",
			Nombre: "Grupo Tejon",
			APIURL: "https://script.google.com/macros/s/AKfycby5ENvo9nS8xv4kyrnNQrinr8htU7McVs6ZoWZHmRp03WezTDFcshRL_hcGsMB3_5x5/exec",
		},
		Tenant{
			ID:     "empresa_c",
			Nombre: "Elefantes Verdes",
			APIURL: "https://script.google.com/macros/s/AKfycbwXQ2vIsT52HutNNzM56C0s9xvJaxsLvPRxcgBZuXmCiMADJYnwucbcO7AQF_XvWsVhww/exec",
		},
		demoTenant(),
	)
}

// LoadRegistry читает реестр из yaml/json файла; пустой путь - встроенный реестр
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read tenants file %s: %w", path, err)
	}

	var file struct {
		Empresas []Tenant `mapstructure:"empresas"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to decode tenants file %s: %w", path, err)
	}

	for i, t := range file.Empresas {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("tenant #%d in %s has no id", i+1, path)
		}
	}

	return NewRegistry(file.Empresas...), nil
}

// Resolve возвращает компанию по id; пустой id означает demo
func (r *Registry) Resolve(id string) (Tenant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = DemoTenantID
	}

	t, ok := r.tenants[id]
	if !ok {
		return Tenant{}, fmt.Errorf("%w: %s", ErrUnknownTenant, id)
	}
	return t, nil
}

func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.tenants))
	for id := range r.tenants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
