package user

import (
	"context"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	. "blogapi/pkg/common"
	"blogapi/pkg/identity"
)

var (
	userID     = "1"
	username   = "pike"
	password   = "sdfsdfsdf"
	salt       = "12345678"
	hashedPass = HashPass(password, salt)
)

func TestGetById(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	r := NewUserRepo(db)

	t.Run("should return user", func(t *testing.T) {
		expect := &User{Id: userID, Username: username, Name: "Rob Pike", Role: identity.RoleUser}

		rows := sqlmock.NewRows([]string{"id", "username", "name", "avatar", "bio", "role"})
		rows.AddRow(expect.Id, expect.Username, expect.Name, "", "", string(expect.Role))

		mock.
			ExpectQuery("SELECT id, username, name, avatar, bio, role FROM users where").
			WithArgs(userID).
			WillReturnRows(rows)

		gotUser, err := r.GetById(context.TODO(), userID)
		if err != nil {
			t.Errorf("unexpected err: %s", err)
			return
		}
		assert.Equal(t, expect, gotUser)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})

	t.Run("should return DB error", func(t *testing.T) {
		expectedErr := fmt.Errorf("mock_db_error")
		mock.
			ExpectQuery("SELECT id, username, name, avatar, bio, role FROM users where").
			WithArgs(userID).
			WillReturnError(expectedErr)
		_, err = r.GetById(context.TODO(), userID)
		assert.ErrorIs(t, err, expectedErr)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})
}

func TestRepoAdd(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	repo := NewUserRepo(db)
	testUser := &User{Username: username, Password: hashedPass}

	t.Run("should add new user", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id"}).AddRow(userID)
		mock.
			ExpectQuery("INSERT INTO users").
			WithArgs(testUser.Username, "", "", "", string(identity.RoleUser), testUser.Password).
			WillReturnRows(rows)

		gotId, err := repo.Add(testUser)
		assert.Nil(t, err)
		assert.Equal(t, userID, gotId)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})

	t.Run("should fail on DB error", func(t *testing.T) {
		expectedErr := fmt.Errorf("insert_failed")
		mock.
			ExpectQuery("INSERT INTO users").
			WillReturnError(expectedErr)

		_, err := repo.Add(testUser)
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestGetByUsernameAndPass(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	repo := NewUserRepo(db)

	cols := []string{"id", "username", "name", "avatar", "bio", "role", "password"}

	t.Run("should return user on valid password", func(t *testing.T) {
		rows := sqlmock.NewRows(cols).
			AddRow(userID, username, "", "", "", string(identity.RoleUser), hashedPass)
		mock.
			ExpectQuery("SELECT id, username, name, avatar, bio, role, password FROM users where").
			WithArgs(username).
			WillReturnRows(rows)

		gotUser, err := repo.GetByUsernameAndPass(username, password)
		assert.Nil(t, err)
		assert.Equal(t, userID, gotUser.Id)
	})

	t.Run("should fail on wrong password", func(t *testing.T) {
		rows := sqlmock.NewRows(cols).
			AddRow(userID, username, "", "", "", string(identity.RoleUser), hashedPass)
		mock.
			ExpectQuery("SELECT id, username, name, avatar, bio, role, password FROM users where").
			WithArgs(username).
			WillReturnRows(rows)

		_, err := repo.GetByUsernameAndPass(username, "wrong_password")
		assert.NotNil(t, err)
	})
}
