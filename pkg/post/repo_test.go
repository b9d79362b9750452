package post

import (
	"context"
	"fmt"
	"testing"
	"time"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogapi/pkg/comment"
	"blogapi/pkg/like"
	"blogapi/pkg/user"
)

func TestPostAdd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	mockInserOneResult := NewMockIMongoInsertOneResult(ctrl)

	repo := &Repo{
		posts: mockMongoColl,
	}

	testPost := &Post{Id: PostId("1")}

	t.Run("success", func(t *testing.T) {
		mockMongoColl.EXPECT().
			InsertOne(ctx, gomock.Any()).
			Return(mockInserOneResult, nil)

		insertedPostId, err := repo.Add(context.Background(), testPost)
		if err != nil {
			t.Errorf("failed success test %v", err)
			return
		}
		assert.Nil(t, err)
		assert.Equal(t, testPost.Id, insertedPostId)
	})

	t.Run("insert error", func(t *testing.T) {
		expectedErr := fmt.Errorf("insert_failed")
		mockMongoColl.EXPECT().
			InsertOne(ctx, gomock.Any()).
			Return(nil, expectedErr)

		insertedPostId, err := repo.Add(context.Background(), &Post{})
		assert.Equal(t, insertedPostId, PostId(``))
		assert.NotNil(t, err)
	})
}

func TestRepoGetById(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	mockSingleResult := NewMockIMongoSingleResult(ctrl)

	repo := &Repo{posts: mockMongoColl}

	t.Run("missing post maps to ErrNotFound", func(t *testing.T) {
		mockMongoColl.EXPECT().
			FindOne(ctx, bson.M{"id": PostId("nope")}).
			Return(mockSingleResult)
		mockSingleResult.EXPECT().
			Decode(gomock.Any()).
			Return(mongo.ErrNoDocuments)

		_, err := repo.GetById(ctx, PostId("nope"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFindPosts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	mockFindResult := NewMockIMongoCursor(ctrl)

	repo := &Repo{
		posts: mockMongoColl,
	}

	t.Run("success", func(t *testing.T) {
		authorId := "7"
		expectedPosts := []*Post{
			{Id: PostId("1"), Author: &user.Profile{Id: authorId}},
			{Id: PostId("2"), Author: &user.Profile{Id: authorId}},
		}

		mockMongoColl.EXPECT().
			Find(ctx, gomock.Any(), gomock.Any()).
			Return(mockFindResult, nil)
		mockFindResult.EXPECT().
			All(ctx, gomock.AssignableToTypeOf(&expectedPosts)).
			SetArg(1, expectedPosts).
			Return(nil)
		mockFindResult.EXPECT().Close(ctx).Return(nil)

		posts, err := repo.Find(ctx, bson.M{"author.id": authorId}, bson.D{{Key: "created", Value: -1}}, 0, 10)
		assert.Nil(t, err)
		assert.Equal(t, expectedPosts, posts)
	})
}

func TestAddLike(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	repo := &Repo{posts: mockMongoColl}

	postId := PostId("p1")
	lk := &like.Like{UserId: "u1", Created: time.Now()}

	t.Run("first like modifies the document", func(t *testing.T) {
		res := NewMockIMongoUpdateResult(ctrl)
		res.EXPECT().ModifiedCount().Return(int64(1))
		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			Return(res, nil)

		added, err := repo.AddLike(ctx, postId, lk)
		assert.Nil(t, err)
		assert.True(t, added)
	})

	t.Run("repeated like is a no-op", func(t *testing.T) {
		res := NewMockIMongoUpdateResult(ctrl)
		res.EXPECT().ModifiedCount().Return(int64(0))
		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			Return(res, nil)

		added, err := repo.AddLike(ctx, postId, lk)
		assert.Nil(t, err)
		assert.False(t, added)
	})
}

func TestUpdatePostFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	repo := &Repo{posts: mockMongoColl}

	t.Run("engagement fields stay out of the write", func(t *testing.T) {
		res := NewMockIMongoUpdateResult(ctrl)
		res.EXPECT().MatchedCount().Return(int64(1))

		var captured bson.D
		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, update interface{}, _ ...*options.UpdateOptions) (IMongoUpdateResult, error) {
				captured = update.(bson.D)
				return res, nil
			})

		p := &Post{
			Id:        PostId("p1"),
			Title:     "Edited title",
			Status:    StatusPublished,
			Views:     10,
			LikeCount: 3,
			Likes:     []*like.Like{{UserId: "u1"}},
			Comments:  []*comment.Comment{{Id: comment.CommentId("c1")}},
		}
		assert.Nil(t, repo.Update(ctx, p))

		set := captured[0].Value.(bson.D)
		keys := map[string]bool{}
		for _, e := range set {
			keys[e.Key] = true
		}
		assert.True(t, keys["title"])
		assert.True(t, keys["status"])
		assert.True(t, keys["updated"])
		for _, k := range []string{"likes", "likeCount", "comments", "views"} {
			assert.False(t, keys[k], "field %q belongs to the engagement ops", k)
		}
	})

	t.Run("missing post maps to ErrNotFound", func(t *testing.T) {
		res := NewMockIMongoUpdateResult(ctrl)
		res.EXPECT().MatchedCount().Return(int64(0))
		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			Return(res, nil)

		assert.ErrorIs(t, repo.Update(ctx, &Post{Id: PostId("nope")}), ErrNotFound)
	})
}

func TestRemoveComment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	repo := &Repo{posts: mockMongoColl}

	t.Run("missing post maps to ErrNotFound", func(t *testing.T) {
		res := NewMockIMongoUpdateResult(ctrl)
		res.EXPECT().MatchedCount().Return(int64(0))
		mockMongoColl.EXPECT().
			UpdateOne(ctx, gomock.Any(), gomock.Any()).
			Return(res, nil)

		_, err := repo.RemoveComment(ctx, PostId("nope"), "c1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeletePost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	mockMongoColl := NewMockIMongoCollection(ctrl)
	repo := &Repo{posts: mockMongoColl}

	t.Run("missing post maps to ErrNotFound", func(t *testing.T) {
		res := NewMockIMongoDeleteResult(ctrl)
		res.EXPECT().DeletedCount().Return(int64(0))
		mockMongoColl.EXPECT().
			DeleteOne(ctx, gomock.Any()).
			Return(res, nil)

		err := repo.Delete(ctx, PostId("nope"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("success", func(t *testing.T) {
		res := NewMockIMongoDeleteResult(ctrl)
		res.EXPECT().DeletedCount().Return(int64(1))
		mockMongoColl.EXPECT().
			DeleteOne(ctx, gomock.Any()).
			Return(res, nil)

		assert.Nil(t, repo.Delete(ctx, PostId("p1")))
	})
}
