package post

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"blogapi/pkg/comment"
	. "blogapi/pkg/common"
	"blogapi/pkg/logger"
	"blogapi/pkg/sessions"
)

type PostHandler struct {
	Service *Service
}

func NewPostHandler(service *Service) *PostHandler {
	return &PostHandler{
		Service: service,
	}
}

func (ph *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	f := ParseListFilter(r.URL.Query())
	page, err := ph.Service.List(r.Context(), f, sessions.GetIdentity(r.Context()))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writePage(w, page)
}

func (ph *PostHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	f := ParseListFilter(r.URL.Query())
	page, err := ph.Service.ListMine(r.Context(), f, sessions.GetIdentity(r.Context()))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writePage(w, page)
}

func (ph *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	targetUserId := vars["user_id"]

	f := ParseListFilter(r.URL.Query())
	page, err := ph.Service.ListByUser(r.Context(), targetUserId, f, sessions.GetIdentity(r.Context()))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writePage(w, page)
}

func (ph *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postId := PostId(vars["post_id"])

	post, err := ph.Service.Get(r.Context(), postId, sessions.GetIdentity(r.Context()))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, post)
}

func (ph *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slug := vars["slug"]

	post, err := ph.Service.GetBySlug(r.Context(), slug, sessions.GetIdentity(r.Context()))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, post)
}

func (ph *PostHandler) Add(w http.ResponseWriter, r *http.Request) {
	payload := new(CreatePayload)
	if err := ParseReqBody(r.Body, payload); err != nil {
		logger.Log(r.Context()).Errorf("can't parse post from request body: %v", err)
		WriteMsg(w, "can't parse post", http.StatusBadRequest)
		return
	}

	post, err := ph.Service.Create(r.Context(), *payload, sessions.GetIdentity(r.Context()))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	WriteData(w, http.StatusCreated, post)
}

func (ph *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postId := PostId(vars["post_id"])

	payload := new(UpdatePayload)
	if err := ParseReqBody(r.Body, payload); err != nil {
		logger.Log(r.Context()).Errorf("can't parse post update from request body: %v", err)
		WriteMsg(w, "can't parse post", http.StatusBadRequest)
		return
	}

	post, err := ph.Service.Update(r.Context(), postId, *payload, sessions.GetIdentity(r.Context()))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, post)
}

func (ph *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postId := PostId(vars["post_id"])

	if err := ph.Service.Delete(r.Context(), postId, sessions.GetIdentity(r.Context())); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	WriteMsg(w, "success", http.StatusOK)
}

func (ph *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postId := PostId(vars["post_id"])

	result, err := ph.Service.ToggleLike(r.Context(), postId, sessions.GetIdentity(r.Context()))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, result)
}

func (ph *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postId := PostId(vars["post_id"])

	c := struct {
		Comment string `json:"comment"`
	}{}
	if err := ParseReqBody(r.Body, &c); err != nil {
		logger.Log(r.Context()).Errorf("can't get comment body: %v", err)
		WriteMsg(w, "failed parsing comment body", http.StatusBadRequest)
		return
	}

	cmt, err := ph.Service.AddComment(r.Context(), postId, c.Comment, sessions.GetIdentity(r.Context()))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	WriteData(w, http.StatusCreated, cmt)
}

func (ph *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postId := PostId(vars["post_id"])
	commentId := comment.CommentId(vars["comment_id"])

	err := ph.Service.DeleteComment(r.Context(), postId, commentId, sessions.GetIdentity(r.Context()))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	WriteMsg(w, "success", http.StatusOK)
}

func writePage(w http.ResponseWriter, page *PostPage) {
	count := len(page.Posts)
	WriteEnvelope(w, http.StatusOK, Envelope{
		Success:    true,
		Data:       page.Posts,
		Count:      &count,
		Total:      &page.Total,
		Pagination: page.Pagination,
	})
}

// writeServiceErr maps the service error kinds onto HTTP statuses. Hidden
// posts answer 404 like missing ones; failed mutation authorization answers
// 403 because the resource's existence is already known to the caller.
func writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		WriteEnvelope(w, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "validation failed",
			Errors:  ve.Fields,
		})
	case errors.Is(err, ErrNotFound):
		WriteMsg(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		WriteMsg(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrConflict):
		WriteMsg(w, "conflict", http.StatusConflict)
	default:
		logger.Log(r.Context()).Errorf("post/handlers: unexpected error: %v", err)
		WriteMsg(w, "internal error", http.StatusInternalServerError)
	}
}
