package postgre

import (
	"database/sql"

	"carelink-srv/internal/audit/repository"
	"carelink-srv/pkg/encrypter"
	pkgLog "carelink-srv/pkg/log"
)

type implRepository struct {
	l   pkgLog.Logger
	db  *sql.DB
	enc encrypter.Encrypter
}

// New builds the postgres-backed audit repository. enc protects caregiver
// contact endpoints at rest and may be nil in tests.
func New(l pkgLog.Logger, db *sql.DB, enc encrypter.Encrypter) repository.Repository {
	return &implRepository{l: l, db: db, enc: enc}
}

func (r *implRepository) protect(target string) string {
	if r.enc == nil || target == "" {
		return target
	}
	ct, err := r.enc.Encrypt(target)
	if err != nil {
		return ""
	}
	return ct
}

func (r *implRepository) reveal(stored string) string {
	if r.enc == nil || stored == "" {
		return stored
	}
	pt, err := r.enc.Decrypt(stored)
	if err != nil {
		return ""
	}
	return pt
}
