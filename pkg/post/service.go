package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"blogapi/pkg/comment"
	"blogapi/pkg/common"
	"blogapi/pkg/identity"
	"blogapi/pkg/like"
	"blogapi/pkg/logger"
	"blogapi/pkg/user"
)

type IPostRepo interface {
	GetById(context.Context, PostId) (*Post, error)
	GetBySlug(context.Context, string) (*Post, error)
	SlugExists(context.Context, string) (bool, error)
	Find(context.Context, bson.M, bson.D, int64, int64) ([]*Post, error)
	Count(context.Context, bson.M) (int64, error)

	Add(context.Context, *Post) (PostId, error)
	Update(context.Context, *Post) error
	Delete(context.Context, PostId) error

	AddLike(context.Context, PostId, *like.Like) (bool, error)
	RemoveLike(context.Context, PostId, string) (bool, error)
	AddComment(context.Context, PostId, *comment.Comment) error
	RemoveComment(context.Context, PostId, comment.CommentId) (bool, error)
	IncrementViews(context.Context, PostId) error
}

// IUserDirectory resolves user ids to profiles for denormalizing authors
// into posts and comments.
type IUserDirectory interface {
	GetById(context.Context, string) (*user.User, error)
}

// Service is the single entry point for post access: listing, single-item
// reads gated by the visibility policy, and all engagement mutations.
// The requester is always an explicit identity value, never ambient state.
type Service struct {
	repo     IPostRepo
	users    IUserDirectory
	validate *validator.Validate
}

func NewService(repo IPostRepo, users IUserDirectory) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		validate: validator.New(),
	}
}

type CreatePayload struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required"`
	Excerpt  string   `json:"excerpt" validate:"max=500"`
	Category string   `json:"category" validate:"max=100"`
	Tags     []string `json:"tags" validate:"max=20,dive,required,max=50"`
	Status   string   `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// UpdatePayload carries merge semantics: nil fields keep their prior values.
// Author and slug are not part of the payload and can never change.
type UpdatePayload struct {
	Title    *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Content  *string   `json:"content" validate:"omitempty,min=1"`
	Excerpt  *string   `json:"excerpt" validate:"omitempty,max=500"`
	Category *string   `json:"category" validate:"omitempty,max=100"`
	Tags     *[]string `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
	Status   *string   `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type PostPage struct {
	Posts      []*Post
	Total      int64
	Pagination *Pagination
}

type LikeResult struct {
	IsLiked bool `json:"isLiked"`
	Likes   int  `json:"likes"`
}

// List returns the general listing: published posts only, whoever asks.
func (s *Service) List(ctx context.Context, f ListFilter, _ identity.Identity) (*PostPage, error) {
	q := f.Query()
	q["status"] = StatusPublished
	return s.page(ctx, q, f)
}

// ListMine returns every post of the requester, drafts included.
func (s *Service) ListMine(ctx context.Context, f ListFilter, ident identity.Identity) (*PostPage, error) {
	if ident.IsAnonymous() {
		return nil, ErrForbidden
	}
	q := f.Query()
	q["author.id"] = ident.Id
	return s.page(ctx, q, f)
}

// ListByUser returns the target user's posts. Unpublished ones show up only
// when the viewer is the target or an admin.
func (s *Service) ListByUser(ctx context.Context, targetUserId string, f ListFilter, ident identity.Identity) (*PostPage, error) {
	q := f.Query()
	q["author.id"] = targetUserId
	if ident.Id != targetUserId && !ident.IsAdmin() {
		q["status"] = StatusPublished
	}
	return s.page(ctx, q, f)
}

func (s *Service) page(ctx context.Context, q bson.M, f ListFilter) (*PostPage, error) {
	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, s.wrap(ctx, "counting posts", err)
	}
	posts, err := s.repo.Find(ctx, q, f.SortSpec(), f.Skip(), f.Limit)
	if err != nil {
		return nil, s.wrap(ctx, "finding posts", err)
	}
	return &PostPage{
		Posts:      posts,
		Total:      total,
		Pagination: f.Paginate(total),
	}, nil
}

func (s *Service) Get(ctx context.Context, id PostId, ident identity.Identity) (*Post, error) {
	post, err := s.repo.GetById(ctx, id)
	if err != nil {
		return nil, s.wrap(ctx, "getting post", err)
	}
	return s.finishRead(ctx, post, ident)
}

func (s *Service) GetBySlug(ctx context.Context, slug string, ident identity.Identity) (*Post, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, s.wrap(ctx, "getting post by slug", err)
	}
	return s.finishRead(ctx, post, ident)
}

// finishRead gates the read with the visibility policy and counts the view.
// A hidden post reads exactly like a missing one.
func (s *Service) finishRead(ctx context.Context, post *Post, ident identity.Identity) (*Post, error) {
	if !CanRead(post, ident) {
		return nil, ErrNotFound
	}
	s.countView(ctx, post, ident)
	return post, nil
}

// countView bumps the view counter unless the author reads their own post.
// The increment is atomic at the store and best-effort: a failed bump is
// logged and the read still succeeds.
func (s *Service) countView(ctx context.Context, post *Post, ident identity.Identity) {
	if ident.Id == post.Author.Id {
		return
	}
	if err := s.repo.IncrementViews(ctx, post.Id); err != nil {
		logger.Log(ctx).Warnf("post/service: can't count view for post %s: %v", post.Id, err)
		return
	}
	post.Views++
}

func (s *Service) Create(ctx context.Context, p CreatePayload, ident identity.Identity) (*Post, error) {
	if ident.IsAnonymous() {
		return nil, ErrForbidden
	}
	// Trim before validating so a whitespace-only title fails `required`.
	p.Title = strings.TrimSpace(p.Title)
	if err := s.check(p); err != nil {
		return nil, err
	}

	author, err := s.users.GetById(ctx, ident.Id)
	if err != nil {
		return nil, s.wrap(ctx, "resolving post author", err)
	}

	status := p.Status
	if status == "" {
		status = StatusDraft
	}
	excerpt := strings.TrimSpace(p.Excerpt)
	if excerpt == "" {
		excerpt = excerptFrom(p.Content)
	}

	now := time.Now()
	post := &Post{
		Id:       PostId(common.RandStringRunes(12)),
		Author:   author.Profile(),
		Title:    p.Title,
		Content:  p.Content,
		Excerpt:  excerpt,
		Status:   status,
		Category: p.Category,
		Tags:     p.Tags,
		Likes:    []*like.Like{},
		Comments: []*comment.Comment{},
		Created:  now,
		Updated:  now,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if status == StatusPublished {
		post.Published = &now
	}

	// Two attempts: the slug picked after the uniqueness probe can still
	// collide with a concurrent create; the unique index reports that as a
	// conflict and we retry with a random suffix.
	for attempt := 0; attempt < 2; attempt++ {
		slug, err := s.uniqueSlug(ctx, post.Title)
		if err != nil {
			return nil, s.wrap(ctx, "deriving slug", err)
		}
		post.Slug = slug

		_, err = s.repo.Add(ctx, post)
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, s.wrap(ctx, "adding post", err)
		}
	}
	return nil, ErrConflict
}

func (s *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	slug := base
	for attempt := 0; attempt < 5; attempt++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = base + "-" + strings.ToLower(common.RandStringRunes(6))
	}
	return "", ErrConflict
}

func (s *Service) Update(ctx context.Context, id PostId, p UpdatePayload, ident identity.Identity) (*Post, error) {
	post, err := s.repo.GetById(ctx, id)
	if err != nil {
		return nil, s.wrap(ctx, "getting post", err)
	}
	if !CanMutate(post.Author.Id, ident) {
		return nil, ErrForbidden
	}
	if p.Title != nil {
		// omitempty skips min=1 for a blank string, so reject it here.
		trimmed := strings.TrimSpace(*p.Title)
		if trimmed == "" {
			return nil, invalidField("title", "title can't be blank")
		}
		p.Title = &trimmed
	}
	if err := s.check(p); err != nil {
		return nil, err
	}

	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*p.Excerpt)
	}
	if p.Category != nil {
		post.Category = *p.Category
	}
	if p.Tags != nil {
		post.Tags = *p.Tags
	}
	if p.Status != nil {
		post.Status = *p.Status
		// Set once, on the first transition to published, never cleared.
		if post.Status == StatusPublished && post.Published == nil {
			now := time.Now()
			post.Published = &now
		}
	}
	post.Updated = time.Now()

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, s.wrap(ctx, "updating post", err)
	}
	return post, nil
}

func (s *Service) Delete(ctx context.Context, id PostId, ident identity.Identity) error {
	post, err := s.repo.GetById(ctx, id)
	if err != nil {
		return s.wrap(ctx, "getting post", err)
	}
	if !CanMutate(post.Author.Id, ident) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap(ctx, "deleting post", err)
	}
	return nil
}

// ToggleLike alternates the requester's like on the post: one transition per
// call, decided by guarded updates at the store, so two users toggling
// concurrently can't lose each other's like. Publication status doesn't gate
// engagement; only existence and authentication do.
func (s *Service) ToggleLike(ctx context.Context, id PostId, ident identity.Identity) (*LikeResult, error) {
	if ident.IsAnonymous() {
		return nil, ErrForbidden
	}
	if _, err := s.repo.GetById(ctx, id); err != nil {
		return nil, s.wrap(ctx, "getting post", err)
	}

	lk := &like.Like{UserId: ident.Id, Created: time.Now()}
	added, err := s.repo.AddLike(ctx, id, lk)
	if err != nil {
		return nil, s.wrap(ctx, "adding like", err)
	}
	if !added {
		if _, err := s.repo.RemoveLike(ctx, id, ident.Id); err != nil {
			return nil, s.wrap(ctx, "removing like", err)
		}
	}

	post, err := s.repo.GetById(ctx, id)
	if err != nil {
		return nil, s.wrap(ctx, "getting post", err)
	}
	return &LikeResult{IsLiked: added, Likes: post.LikeCount}, nil
}

func (s *Service) AddComment(ctx context.Context, id PostId, body string, ident identity.Identity) (*comment.Comment, error) {
	if ident.IsAnonymous() {
		return nil, ErrForbidden
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalidField("comment", "comment text is required")
	}

	author, err := s.users.GetById(ctx, ident.Id)
	if err != nil {
		return nil, s.wrap(ctx, "resolving commenter", err)
	}

	cmt := &comment.Comment{
		Id:      comment.CommentId(uuid.NewString()),
		Author:  author.Profile(),
		Created: time.Now(),
		Body:    body,
	}
	if err := s.repo.AddComment(ctx, id, cmt); err != nil {
		return nil, s.wrap(ctx, "adding comment", err)
	}
	return cmt, nil
}

// DeleteComment authorizes against the comment's owner, not the post's.
// Deleting a comment never touches the rest of the aggregate.
func (s *Service) DeleteComment(ctx context.Context, id PostId, commentId comment.CommentId, ident identity.Identity) error {
	post, err := s.repo.GetById(ctx, id)
	if err != nil {
		return s.wrap(ctx, "getting post", err)
	}
	cmt, ok := post.FindComment(commentId)
	if !ok {
		return ErrNotFound
	}
	if !CanMutate(cmt.Author.Id, ident) {
		return ErrForbidden
	}
	if _, err := s.repo.RemoveComment(ctx, id, commentId); err != nil {
		return s.wrap(ctx, "removing comment", err)
	}
	return nil
}

// wrap passes the package's own error kinds through and hides everything
// else behind ErrInternal after logging it.
func (s *Service) wrap(ctx context.Context, op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrForbidden) {
		return err
	}
	logger.Log(ctx).Errorf("post/service: failed %s: %v", op, err)
	return ErrInternal
}

func (s *Service) check(payload interface{}) error {
	err := s.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := new(ValidationError)
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fmt.Sprintf("failed on the `%s` rule", fe.Tag()),
		})
	}
	return ve
}

const excerptLen = 200

// excerptFrom derives a short excerpt from the content when none was
// supplied, cutting at a word boundary.
func excerptFrom(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= excerptLen {
		return content
	}
	cut := string([]rune(content)[:excerptLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
