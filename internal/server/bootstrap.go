package server

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/auth"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/store"
)

// EnsureAdmin creates the admin account if it does not exist yet, so a
// fresh database is reachable at all. Call before serving.
func EnsureAdmin(ctx context.Context, st store.Store, username, password string) error {
	_, err := st.Identities().FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return errors.Wrap(err, "look up admin account")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &model.Identity{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := st.Identities().Add(ctx, admin); err != nil {
		return errors.Wrap(err, "create admin account")
	}
	logrus.WithField("user", username).Warn("created default admin account, change its password")
	return nil
}
