package main

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"

	"blogapi/pkg/comment"
	. "blogapi/pkg/common"
	"blogapi/pkg/like"
	"blogapi/pkg/post"
	"blogapi/pkg/user"
)

var (
	f             = faker.New()
	onePassForAll = HashPass("sdfsdfsdf", RandStringRunes(8)) // salt must have len of 8
)

type IUserRepo interface {
	Add(*user.User) (string, error)
	GetAll() ([]*user.User, error)
}

func createAuthors(userRepo IUserRepo) {
	// User for experiments (not random)
	_, err := userRepo.Add(&user.User{
		Username: "pike",
		Name:     "Rob Pike",
		Password: onePassForAll,
	})
	if err != nil {
		log.Fatalln("seed: can't create default user:", err)
	}
	for i := 1; i <= 5; i++ {
		genUser(userRepo)
	}
}

func seed(userRepo IUserRepo, postRepo *post.Repo) {
	authors, err := userRepo.GetAll()
	if err != nil {
		log.Fatalln("seed: can't get all authors:", err)
	}

	if len(authors) == 0 {
		createAuthors(userRepo)
	}

	for i := 0; i <= 10; i++ {
		_, err := postRepo.Add(context.Background(), genPost(authors))
		if err != nil {
			log.Fatalln("seed: can't add post:", err)
		}
	}
}

func randCategory() string {
	categories := []string{"programming", "music", "videos", "funny", "news", "fashion"}
	n := rand.Int() % len(categories)
	return categories[n]
}

func randStatus() string {
	statuses := []string{
		post.StatusPublished,
		post.StatusPublished,
		post.StatusPublished,
		post.StatusDraft,
		post.StatusArchived,
	}
	return statuses[rand.Intn(len(statuses))]
}

func randTags() []string {
	pool := []string{"go", "mongodb", "web", "tutorial", "opinion", "release", "howto"}
	n := rand.Intn(4)
	tags := []string{}
	for _, t := range pool[:n] {
		tags = append(tags, t)
	}
	return tags
}

func genUser(userRepo IUserRepo) {
	person := f.Person()
	u := user.User{
		Username: strings.ToLower(person.FirstName()),
		Name:     person.Name(),
		Password: onePassForAll,
	}
	_, err := userRepo.Add(&u)
	if err != nil {
		log.Fatalln("seed: can't add user:", err)
	}
}

func genComments(users []*user.User) []*comment.Comment {
	n := rand.Intn(10)
	comments := []*comment.Comment{}
	for i := 0; i <= n; i++ {
		comments = append(comments, &comment.Comment{
			Id:      comment.CommentId(uuid.NewString()),
			Author:  randUser(users).Profile(),
			Created: f.Time().Time(time.Now()),
			Body:    genText(),
		})
	}
	return comments
}

func genLikes(users []*user.User) []*like.Like {
	likes := []*like.Like{}
	for _, u := range users {
		if rand.Intn(2) == 0 {
			continue
		}
		likes = append(likes, &like.Like{
			UserId:  u.Id,
			Created: f.Time().Time(time.Now()),
		})
	}
	return likes
}

func genTitle() string {
	return strings.Join(f.Lorem().Words(rand.Intn(5)+3), " ")
}

func genText() string {
	return f.Lorem().Paragraph(rand.Intn(3) + 2)
}

func genPost(users []*user.User) *post.Post {
	title := genTitle()
	content := genText()
	status := randStatus()
	likes := genLikes(users)
	created := f.Time().Time(time.Now())

	p := &post.Post{
		Id:        post.PostId(RandStringRunes(12)),
		Author:    randUser(users).Profile(),
		Title:     title,
		Content:   content,
		Slug:      post.Slugify(title) + "-" + strings.ToLower(RandStringRunes(6)),
		Status:    status,
		Category:  randCategory(),
		Tags:      randTags(),
		Views:     rand.Intn(100),
		LikeCount: len(likes),
		Likes:     likes,
		Comments:  genComments(users),
		Created:   created,
		Updated:   created,
	}
	if status == post.StatusPublished {
		p.Published = &created
	}
	return p
}

func randUser(users []*user.User) *user.User {
	idx := rand.Intn(len(users))
	return users[idx]
}
