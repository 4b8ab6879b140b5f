package cryptox

import "github.com/gmanager/gmanager/internal/models"

// EncryptAccountFields returns a copy of the account with its sensitive
// attributes encrypted: email, password, recovery email, TOTP secret and
// notes. ID, year, group, timestamps and tags pass through unchanged so
// they stay filterable.
//
// Nil optional fields remain nil; present-but-empty strings pass through
// unencrypted (see EncryptOptionalField).
func EncryptAccountFields(account models.Account, key []byte) (models.Account, error) {
	email, err := EncryptField(account.Email, key)
	if err != nil {
		return models.Account{}, err
	}
	password, err := EncryptField(account.Password, key)
	if err != nil {
		return models.Account{}, err
	}
	recovery, err := EncryptOptionalField(account.RecoveryEmail, key)
	if err != nil {
		return models.Account{}, err
	}
	totp, err := EncryptOptionalField(account.TOTPSecret, key)
	if err != nil {
		return models.Account{}, err
	}
	notes, err := EncryptOptionalField(account.Notes, key)
	if err != nil {
		return models.Account{}, err
	}

	account.Email = email
	account.Password = password
	account.RecoveryEmail = recovery
	account.TOTPSecret = totp
	account.Notes = notes
	return account, nil
}

// DecryptAccountFields is the counterpart of EncryptAccountFields. A failed
// decryption usually means the wrong master key or tampered data.
func DecryptAccountFields(account models.Account, key []byte) (models.Account, error) {
	email, err := DecryptField(account.Email, key)
	if err != nil {
		return models.Account{}, err
	}
	password, err := DecryptField(account.Password, key)
	if err != nil {
		return models.Account{}, err
	}
	recovery, err := DecryptOptionalField(account.RecoveryEmail, key)
	if err != nil {
		return models.Account{}, err
	}
	totp, err := DecryptOptionalField(account.TOTPSecret, key)
	if err != nil {
		return models.Account{}, err
	}
	notes, err := DecryptOptionalField(account.Notes, key)
	if err != nil {
		return models.Account{}, err
	}

	account.Email = email
	account.Password = password
	account.RecoveryEmail = recovery
	account.TOTPSecret = totp
	account.Notes = notes
	return account, nil
}

// EncryptAccounts encrypts a batch of accounts, stopping at the first error.
func EncryptAccounts(accounts []models.Account, key []byte) ([]models.Account, error) {
	result := make([]models.Account, 0, len(accounts))
	for _, account := range accounts {
		enc, err := EncryptAccountFields(account, key)
		if err != nil {
			return nil, err
		}
		result = append(result, enc)
	}
	return result, nil
}

// DecryptAccounts decrypts a batch of accounts, stopping at the first error.
func DecryptAccounts(accounts []models.Account, key []byte) ([]models.Account, error) {
	result := make([]models.Account, 0, len(accounts))
	for _, account := range accounts {
		dec, err := DecryptAccountFields(account, key)
		if err != nil {
			return nil, err
		}
		result = append(result, dec)
	}
	return result, nil
}
