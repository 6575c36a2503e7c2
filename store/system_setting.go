package store

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/util"
)

func (s *Store) GetSystemSetting(name string) (*model.SystemSetting, error) {
	if cache, ok := s.SystemSettingCache.Load(name); ok {
		return cache.(*model.SystemSetting), nil
	}

	setting := &model.SystemSetting{}
	stmt := `SELECT name, value, description FROM system_setting WHERE name = ?`
	if err := s.db.QueryRow(stmt, name).Scan(&setting.Name, &setting.Value, &setting.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get system setting")
	}

	s.SystemSettingCache.Store(setting.Name, setting)
	return setting, nil
}

func (s *Store) UpsertSystemSetting(setting *model.SystemSetting) (*model.SystemSetting, error) {
	stmt := `
		INSERT INTO system_setting (name, value, description)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value=EXCLUDED.value, description=EXCLUDED.description
		RETURNING name, value, description
	`
	upserted := &model.SystemSetting{}
	if err := s.db.QueryRow(stmt, setting.Name, setting.Value, setting.Description).Scan(
		&upserted.Name,
		&upserted.Value,
		&upserted.Description,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert system setting")
	}

	s.SystemSettingCache.Store(upserted.Name, upserted)
	return upserted, nil
}

// GetSessionSecret loads the token signing secret, generating one on first
// use so every deployment gets its own.
func (s *Store) GetSessionSecret() (string, error) {
	setting, err := s.GetSystemSetting(model.SettingSecretSession)
	if err != nil {
		return "", err
	}
	if setting != nil && setting.Value != "" {
		return setting.Value, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	secret, err := util.RandomString(32)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate session secret")
	}
	if _, err := s.UpsertSystemSetting(&model.SystemSetting{
		Name:        model.SettingSecretSession,
		Value:       secret,
		Description: "signing secret for access tokens",
	}); err != nil {
		return "", err
	}
	return secret, nil
}
