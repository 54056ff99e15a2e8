package sqlite

import (
	"context"

	"github.com/upper/db/v4"

	"github.com/univent/univent-be/model"
)

type UserDB struct {
	sess db.Session
}

func getUserDB(sess db.Session) *UserDB {
	return &UserDB{sess}
}

func (udb *UserDB) CreateUser(ctx context.Context, user *model.User) error {
	res, err := udb.sess.SQL().
		InsertInto("users").
		Columns("username", "password_hash", "is_admin").
		Values(user.Username, user.PasswordHash, user.IsAdmin).
		ExecContext(ctx)
	if err != nil {
		return err
	}
	user.Id, err = res.LastInsertId()
	return err
}

func (udb *UserDB) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return udb.getUserWhere(ctx, "id = ?", id)
}

func (udb *UserDB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return udb.getUserWhere(ctx, "username = ?", username)
}

func (udb *UserDB) getUserWhere(ctx context.Context, cond string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := udb.sess.SQL().
		Select("*").
		From("users").
		Where(cond, arg).
		IteratorContext(ctx).
		One(&user); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
