package sqlite

import (
	"context"

	"github.com/upper/db/v4"

	"github.com/univent/univent-be/model"
)

type SessionDB struct {
	sess db.Session
}

func getSessionDB(sess db.Session) *SessionDB {
	return &SessionDB{sess}
}

func (sdb *SessionDB) CreateSession(ctx context.Context, session *model.Session) error {
	_, err := sdb.sess.SQL().
		InsertInto("sessions").
		Columns("token", "user_id", "expires_at").
		Values(session.Token, session.UserId, session.ExpiresAt).
		ExecContext(ctx)
	return err
}

func (sdb *SessionDB) GetSession(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	if err := sdb.sess.SQL().
		Select("*").
		From("sessions").
		Where("token = ?", token).
		IteratorContext(ctx).
		One(&session); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (sdb *SessionDB) DeleteSession(ctx context.Context, token string) error {
	_, err := sdb.sess.SQL().
		DeleteFrom("sessions").
		Where("token = ?", token).
		ExecContext(ctx)
	return err
}
