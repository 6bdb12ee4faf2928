package session

import (
	"encoding/json"

	"asistencia-bot/internal/config"
	"asistencia-bot/internal/models"

	"github.com/sirupsen/logrus"
)

// StorageKey ключ, под которым хранится запись текущего пользователя
const StorageKey = "empleado_data"

// Storage долговременное хранилище ключ-значение одного чата
type Storage interface {
	Get(namespace, key string) (string, bool, error)
	Set(namespace, key, value string) error
	Remove(namespace, key string) error
}

// Store хранит не более одной записи сессии в пространстве чата
type Store struct {
	storage   Storage
	namespace string
	tenant    config.Tenant
	logger    *logrus.Entry
}

func NewStore(storage Storage, namespace string, tenant config.Tenant) *Store {
	return &Store{
		storage:   storage,
		namespace: namespace,
		tenant:    tenant,
		logger: logrus.WithFields(logrus.Fields{
			"component": "session",
			"namespace": namespace,
			"empresa":   tenant.ID,
		}),
	}
}

// Save помечает запись активной компанией и перезаписывает сессию.
// Ошибка записи только логируется
func (s *Store) Save(record models.Empleado) {
	record.EmpresaID = s.tenant.ID
	record.EmpresaNombre = s.tenant.Nombre

	data, err := json.Marshal(record)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode session")
		return
	}

	if err := s.storage.Set(s.namespace, StorageKey, string(data)); err != nil {
		s.logger.WithError(err).Error("failed to save session")
	}
}

// Load возвращает сохраненного пользователя или nil.
// Сессия другой компании удаляется
func (s *Store) Load() *models.Empleado {
	raw, found, err := s.storage.Get(s.namespace, StorageKey)
	if err != nil {
		s.logger.WithError(err).Error("failed to read session")
		return nil
	}
	if !found {
		return nil
	}

	var record models.Empleado
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.logger.WithError(err).Warn("malformed session data")
		return nil
	}

	if record.EmpresaID != "" && record.EmpresaID != s.tenant.ID {
		s.logger.WithField("session_empresa", record.EmpresaID).Warn("session belongs to another company, clearing")
		s.Clear()
		return nil
	}

	return &record
}

func (s *Store) Clear() {
	if err := s.storage.Remove(s.namespace, StorageKey); err != nil {
		s.logger.WithError(err).Error("failed to clear session")
	}
}

func (s *Store) Tenant() config.Tenant {
	return s.tenant
}
