package http

import (
	"net/http"

	"wicki/internal/domain"
	"wicki/internal/dto"
	"wicki/internal/permission"
	"wicki/internal/service/impl"
	"wicki/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var createOwnPost = permission.MustParse("create:post:own")

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserResponse{ID: u.ID.String(), Username: u.Username, CreatedAt: u.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

// owner loads the user named in the URL.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	u, err := h.Users.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return u, true
}

func (h *Handler) userProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := h.owner(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dto.UserResponse{ID: u.ID.String(), Username: u.Username, CreatedAt: u.CreatedAt})
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	u, ok := h.owner(w, r)
	if !ok {
		return
	}
	posts, err := h.Posts.ListByUser(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, impl.PostResponse(&posts[i], u.Username))
	}
	writeJSON(w, http.StatusOK, out)
}

// post loads the post named in the URL, which must belong to owner.
func (h *Handler) post(w http.ResponseWriter, r *http.Request, owner *domain.User) (*domain.Post, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		writeNotFound(w)
		return nil, false
	}
	p, err := h.Posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if p.UserID != owner.ID {
		writeNotFound(w)
		return nil, false
	}
	return p, true
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	u, ok := h.owner(w, r)
	if !ok {
		return
	}
	p, ok := h.post(w, r, u)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, impl.PostResponse(p, u.Username))
}

func postForm(r *http.Request) dto.PostRequest {
	return dto.PostRequest{Title: r.PostFormValue("title"), Content: r.PostFormValue("content")}
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserWithPermission(w, r, createOwnPost)
	if !ok {
		return
	}
	u, ok := h.owner(w, r)
	if !ok {
		return
	}
	if u.ID != userID {
		h.writeForbidden(w, "Unauthorized: posts can only be created for yourself")
		return
	}
	req := postForm(r)
	if err := validation.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Posts.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	redirect(w, r, "/users/"+u.Username+"/posts/"+p.ID.String())
}

// authorizePostAction loads the post and checks "<action>:post:own,any" for
// its owner or "<action>:post:any" for anyone else.
func (h *Handler) authorizePostAction(w http.ResponseWriter, r *http.Request, action string) (*domain.User, *domain.Post, bool) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return nil, nil, false
	}
	owner, ok := h.owner(w, r)
	if !ok {
		return nil, nil, false
	}
	p, ok := h.post(w, r, owner)
	if !ok {
		return nil, nil, false
	}
	perm := permission.ForOwner(action, "post", p.UserID == userID)
	allowed, err := h.Permissions.HasPermission(r.Context(), userID, perm)
	if err != nil {
		writeError(w, r, err)
		return nil, nil, false
	}
	if !allowed {
		h.writeForbidden(w, "Unauthorized: required permissions: "+perm.String())
		return nil, nil, false
	}
	return owner, p, true
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	owner, p, ok := h.authorizePostAction(w, r, "update")
	if !ok {
		return
	}
	req := postForm(r)
	if err := validation.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.Posts.Update(r.Context(), p.ID, req); err != nil {
		writeError(w, r, err)
		return
	}
	redirect(w, r, "/users/"+owner.Username+"/posts/"+p.ID.String())
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	owner, p, ok := h.authorizePostAction(w, r, "delete")
	if !ok {
		return
	}
	if err := h.Posts.Delete(r.Context(), p.ID); err != nil {
		writeError(w, r, err)
		return
	}
	redirect(w, r, "/users/"+owner.Username+"/posts")
}

func (h *Handler) admin(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUserWithRole(w, r, domain.RoleAdmin); !ok {
		return
	}
	users, err := h.Users.List(r.Context(), "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": len(users)})
}
