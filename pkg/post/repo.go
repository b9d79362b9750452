package post

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogapi/pkg/comment"
	"blogapi/pkg/like"
)

// Repo persists post aggregates in a MongoDB collection. Engagement
// mutations (likes, comments, views) are single atomic field updates at the
// store; the document is never round-tripped for them, so concurrent
// mutations of disjoint parts of one post can't lose each other.
//
// A unique index on `slug` and a text index on title+content are assumed.
type Repo struct {
	posts IMongoCollection
}

func NewPostRepo(postsCol *mongo.Collection) *Repo {
	posts := &MongoCollection{
		Coll: postsCol,
	}
	return &Repo{
		posts: posts,
	}
}

func (r *Repo) Add(ctx context.Context, p *Post) (PostId, error) {
	_, err := r.posts.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return PostId(``), ErrConflict
		}
		return PostId(``), fmt.Errorf("post/repo: failed inserting a post: %w", err)
	}
	return PostId(p.Id), nil
}

// Update writes back the post's own fields. Likes, likeCount, comments and
// views are owned by the atomic engagement ops and stay out of the $set, so
// an engagement mutation landing between the caller's load and this write is
// not clobbered by the stale in-memory snapshot.
func (r *Repo) Update(ctx context.Context, p *Post) error {
	fields := bson.D{
		{Key: "title", Value: p.Title},
		{Key: "content", Value: p.Content},
		{Key: "excerpt", Value: p.Excerpt},
		{Key: "category", Value: p.Category},
		{Key: "tags", Value: p.Tags},
		{Key: "status", Value: p.Status},
		{Key: "updated", Value: p.Updated},
	}
	if p.Published != nil {
		fields = append(fields, bson.E{Key: "published", Value: p.Published})
	}
	update := bson.D{{Key: "$set", Value: fields}}
	res, err := r.posts.UpdateOne(ctx, bson.M{"id": p.Id}, update)
	if err != nil {
		return fmt.Errorf("post/repo: failed updating post: %w", err)
	}
	if res.MatchedCount() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the aggregate; embedded comments and likes go with it.
func (r *Repo) Delete(ctx context.Context, id PostId) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("post/repo: failed deleting post: %w", err)
	}
	if res.DeletedCount() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) GetById(ctx context.Context, id PostId) (*Post, error) {
	return r.getOne(ctx, bson.M{"id": id})
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	return r.getOne(ctx, bson.M{"slug": slug})
}

func (r *Repo) getOne(ctx context.Context, filter bson.M) (*Post, error) {
	post := new(Post)
	err := r.posts.FindOne(ctx, filter).Decode(post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("post/repo: failed finding post: %w", err)
	}
	return post, nil
}

func (r *Repo) SlugExists(ctx context.Context, slug string) (bool, error) {
	err := r.posts.FindOne(ctx, bson.M{"slug": slug}).Decode(&struct{}{})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("post/repo: failed checking slug: %w", err)
	}
	return true, nil
}

func (r *Repo) Find(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]*Post, error) {
	opts := options.Find().SetSort(sort).SetSkip(skip).SetLimit(limit)
	cursor, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed finding posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []*Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("post/repo: failed geting posts from cursor: %w", err)
	}
	return posts, nil
}

func (r *Repo) Count(ctx context.Context, filter bson.M) (int64, error) {
	total, err := r.posts.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("post/repo: failed counting posts: %w", err)
	}
	return total, nil
}

// AddLike appends the like and bumps likeCount in one atomic update. The
// filter guards membership, so a user already in the like list is a no-op;
// the returned bool reports whether the like was actually added.
func (r *Repo) AddLike(ctx context.Context, postId PostId, lk *like.Like) (bool, error) {
	filter := bson.D{
		{Key: "id", Value: postId},
		{Key: "likes.user", Value: bson.D{{Key: "$ne", Value: lk.UserId}}},
	}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "likes", Value: lk}}},
		{Key: "$inc", Value: bson.D{{Key: "likeCount", Value: 1}}},
	}
	res, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("post/repo: failed adding like: %w", err)
	}
	return res.ModifiedCount() > 0, nil
}

// RemoveLike pulls the user's like and decrements likeCount, guarded by
// membership so likeCount never drifts below the list length.
func (r *Repo) RemoveLike(ctx context.Context, postId PostId, userId string) (bool, error) {
	filter := bson.D{
		{Key: "id", Value: postId},
		{Key: "likes.user", Value: userId},
	}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "likes", Value: bson.D{{Key: "user", Value: userId}}}}},
		{Key: "$inc", Value: bson.D{{Key: "likeCount", Value: -1}}},
	}
	res, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("post/repo: failed removing like: %w", err)
	}
	return res.ModifiedCount() > 0, nil
}

func (r *Repo) AddComment(ctx context.Context, postId PostId, cmt *comment.Comment) error {
	filter := bson.D{{Key: "id", Value: postId}}
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "comments", Value: cmt}}}}
	res, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("post/repo: failed adding comment: %w", err)
	}
	if res.MatchedCount() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) RemoveComment(ctx context.Context, postId PostId, commentId comment.CommentId) (bool, error) {
	filter := bson.D{{Key: "id", Value: postId}}
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: "comments", Value: bson.D{{Key: "id", Value: commentId}}}}}}
	res, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("post/repo: failed removing comment: %w", err)
	}
	if res.MatchedCount() == 0 {
		return false, ErrNotFound
	}
	return res.ModifiedCount() > 0, nil
}

// IncrementViews bumps the view counter. Lost increments under failure are
// tolerated by the caller, so the error is informational.
func (r *Repo) IncrementViews(ctx context.Context, postId PostId) error {
	filter := bson.D{{Key: "id", Value: postId}}
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}}
	_, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("post/repo: failed incrementing views: %w", err)
	}
	return nil
}
